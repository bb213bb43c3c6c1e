package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"docutrack/internal/model"
)

const pdfPreamble = "%PDF-1.4\n1 0 obj\n<<\n/Type /Catalog\n/Pages 2 0 R\n>>\nendobj\n\n"

const recentDocumentLimit = 5

type DepartmentStat struct {
	Department string `json:"department"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Pending    int    `json:"pending"`
}

type ProcessingTime struct {
	DocumentType model.DocumentType `json:"document_type"`
	AverageDays  float64            `json:"average_days"`
}

type MonthlyStat struct {
	Month     string `json:"month"`
	Processed int    `json:"processed"`
	Completed int    `json:"completed"`
}

type AnalyticsReport struct {
	GeneratedAt        time.Time        `json:"generated_at"`
	TotalDocuments     int              `json:"total_documents"`
	CompletedDocuments int              `json:"completed_documents"`
	PendingDocuments   int              `json:"pending_documents"`
	OverdueDocuments   int              `json:"overdue_documents"`
	DepartmentStats    []DepartmentStat `json:"department_stats"`
	ProcessingTimes    []ProcessingTime `json:"processing_times"`
	MonthlyStats       []MonthlyStat    `json:"monthly_stats"`
}

type RecentDocument struct {
	Name           string       `json:"name"`
	Client         string       `json:"client"`
	Status         model.Status `json:"status"`
	ProcessingDays float64      `json:"processing_days"`
}

type ProcessingReport struct {
	StaffMember           string           `json:"staff_member"`
	ReportDate            time.Time        `json:"report_date"`
	DocumentsProcessed    int              `json:"documents_processed"`
	DocumentsCompleted    int              `json:"documents_completed"`
	DocumentsPending      int              `json:"documents_pending"`
	AverageProcessingDays float64          `json:"average_processing_days"`
	RecentDocuments       []RecentDocument `json:"recent_documents"`
}

// ReportService aggregates the live working set into the two dashboard
// reports. Rendering is a plain-text layout behind a PDF preamble; no real
// PDF bytes are produced.
type ReportService struct {
	store DocumentStore
}

func NewReportService(store DocumentStore) *ReportService {
	return &ReportService{store: store}
}

func (s *ReportService) Analytics(ctx context.Context) (*AnalyticsReport, error) {
	docs, err := s.store.List()
	if err != nil {
		return nil, err
	}
	now := time.Now()

	report := &AnalyticsReport{GeneratedAt: now, TotalDocuments: len(docs)}
	departments := map[string]*DepartmentStat{}
	typeDays := map[model.DocumentType][]float64{}
	months := map[string]*MonthlyStat{}
	monthKeys := map[string]time.Time{}

	for i := range docs {
		doc := &docs[i]
		completed := doc.Status == model.StatusCompleted
		if completed {
			report.CompletedDocuments++
		} else {
			report.PendingDocuments++
		}
		if doc.Overdue(now) {
			report.OverdueDocuments++
		}

		dept, ok := departments[doc.Department]
		if !ok {
			dept = &DepartmentStat{Department: doc.Department}
			departments[doc.Department] = dept
		}
		dept.Total++
		if completed {
			dept.Completed++
		} else {
			dept.Pending++
		}

		if completed {
			days := doc.LastModified.Sub(doc.AssignedDate).Hours() / 24
			if days < 0 {
				days = 0
			}
			typeDays[doc.Type] = append(typeDays[doc.Type], days)
		}

		monthStart := time.Date(doc.AssignedDate.Year(), doc.AssignedDate.Month(), 1, 0, 0, 0, 0, doc.AssignedDate.Location())
		key := monthStart.Format("January 2006")
		month, ok := months[key]
		if !ok {
			month = &MonthlyStat{Month: key}
			months[key] = month
			monthKeys[key] = monthStart
		}
		month.Processed++
		if completed {
			month.Completed++
		}
	}

	for _, dept := range departments {
		report.DepartmentStats = append(report.DepartmentStats, *dept)
	}
	sort.Slice(report.DepartmentStats, func(i, j int) bool {
		return report.DepartmentStats[i].Department < report.DepartmentStats[j].Department
	})

	for docType, days := range typeDays {
		var sum float64
		for _, d := range days {
			sum += d
		}
		report.ProcessingTimes = append(report.ProcessingTimes, ProcessingTime{
			DocumentType: docType,
			AverageDays:  sum / float64(len(days)),
		})
	}
	sort.Slice(report.ProcessingTimes, func(i, j int) bool {
		return report.ProcessingTimes[i].DocumentType < report.ProcessingTimes[j].DocumentType
	})

	for _, month := range months {
		report.MonthlyStats = append(report.MonthlyStats, *month)
	}
	sort.Slice(report.MonthlyStats, func(i, j int) bool {
		return monthKeys[report.MonthlyStats[i].Month].After(monthKeys[report.MonthlyStats[j].Month])
	})

	return report, nil
}

func (s *ReportService) Processing(ctx context.Context, staffMember string) (*ProcessingReport, error) {
	docs, err := s.store.List()
	if err != nil {
		return nil, err
	}
	now := time.Now()

	report := &ProcessingReport{
		StaffMember:        staffMember,
		ReportDate:         now,
		DocumentsProcessed: len(docs),
	}

	var completedDays float64
	for i := range docs {
		doc := &docs[i]
		if doc.Status == model.StatusCompleted {
			report.DocumentsCompleted++
			days := doc.LastModified.Sub(doc.AssignedDate).Hours() / 24
			if days < 0 {
				days = 0
			}
			completedDays += days
		} else {
			report.DocumentsPending++
		}
	}
	if report.DocumentsCompleted > 0 {
		report.AverageProcessingDays = completedDays / float64(report.DocumentsCompleted)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].LastModified.After(docs[j].LastModified)
	})
	limit := recentDocumentLimit
	if len(docs) < limit {
		limit = len(docs)
	}
	for i := 0; i < limit; i++ {
		doc := &docs[i]
		days := doc.LastModified.Sub(doc.AssignedDate).Hours() / 24
		if days < 0 {
			days = 0
		}
		report.RecentDocuments = append(report.RecentDocuments, RecentDocument{
			Name:           doc.Name,
			Client:         doc.ClientName,
			Status:         doc.Status,
			ProcessingDays: days,
		})
	}
	return report, nil
}

// RenderAnalytics lays the report out in fixed text sections.
func RenderAnalytics(r *AnalyticsReport) []byte {
	var b strings.Builder
	b.WriteString(pdfPreamble)
	b.WriteString("DocuTrack Pro - Analytics Report\n")
	fmt.Fprintf(&b, "Generated on: %s\n\n", r.GeneratedAt.Format("2006-01-02"))

	b.WriteString("SUMMARY STATISTICS\n")
	fmt.Fprintf(&b, "Total Documents: %d\n", r.TotalDocuments)
	fmt.Fprintf(&b, "Completed Documents: %d\n", r.CompletedDocuments)
	fmt.Fprintf(&b, "Pending Documents: %d\n", r.PendingDocuments)
	fmt.Fprintf(&b, "Overdue Documents: %d\n\n", r.OverdueDocuments)

	b.WriteString("DEPARTMENT STATISTICS\n")
	for _, dept := range r.DepartmentStats {
		fmt.Fprintf(&b, "%s: Total=%d, Completed=%d, Pending=%d\n", dept.Department, dept.Total, dept.Completed, dept.Pending)
	}

	b.WriteString("\nPROCESSING TIMES BY DOCUMENT TYPE\n")
	for _, pt := range r.ProcessingTimes {
		fmt.Fprintf(&b, "%s: %.1f days average\n", pt.DocumentType, pt.AverageDays)
	}

	b.WriteString("\nMONTHLY STATISTICS\n")
	for _, ms := range r.MonthlyStats {
		fmt.Fprintf(&b, "%s: Processed=%d, Completed=%d\n", ms.Month, ms.Processed, ms.Completed)
	}
	return []byte(b.String())
}

// RenderProcessing lays out the staff report.
func RenderProcessing(r *ProcessingReport) []byte {
	var b strings.Builder
	b.WriteString(pdfPreamble)
	b.WriteString("DocuTrack Pro - Processing Staff Report\n")
	fmt.Fprintf(&b, "Staff Member: %s\n", r.StaffMember)
	fmt.Fprintf(&b, "Report Date: %s\n\n", r.ReportDate.Format("2006-01-02"))

	b.WriteString("PERFORMANCE SUMMARY\n")
	fmt.Fprintf(&b, "Documents Processed: %d\n", r.DocumentsProcessed)
	fmt.Fprintf(&b, "Documents Completed: %d\n", r.DocumentsCompleted)
	fmt.Fprintf(&b, "Documents Pending: %d\n", r.DocumentsPending)
	fmt.Fprintf(&b, "Average Processing Time: %.1f days\n\n", r.AverageProcessingDays)

	b.WriteString("RECENT DOCUMENTS\n")
	for _, doc := range r.RecentDocuments {
		fmt.Fprintf(&b, "%s - Client: %s - Status: %s - Time: %.1f days\n", doc.Name, doc.Client, doc.Status, doc.ProcessingDays)
	}
	return []byte(b.String())
}
