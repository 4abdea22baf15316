package services

import (
	"grantledger/internal/balance"
	"grantledger/internal/guard"
	"grantledger/internal/models"
)

// reportService serves balance figures computed on read.
type reportService struct {
	ledger *Ledger
}

// NewReportService creates a new ReportServicer.
func NewReportService(l *Ledger) ReportServicer {
	return &reportService{ledger: l}
}

// GetProjectSummary returns the funding, RAB and spend figures of a project.
func (s *reportService) GetProjectSummary(actor models.User, projectID string) (*balance.ProjectSummary, error) {
	if err := s.ledger.guard.Authorize(actor, guard.OpViewProject, projectID); err != nil {
		return nil, err
	}
	var summary balance.ProjectSummary
	err := s.ledger.read(func() error {
		var err error
		summary, err = s.ledger.calc.ProjectSummary(projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetOverview returns totals across all projects.
func (s *reportService) GetOverview(actor models.User) (*balance.Overview, error) {
	return s.overview(actor, guard.OpViewOverview)
}

// RealizationReport returns the overview rows used by the exported reports.
func (s *reportService) RealizationReport(actor models.User) (*balance.Overview, error) {
	return s.overview(actor, guard.OpExportReport)
}

func (s *reportService) overview(actor models.User, op guard.Operation) (*balance.Overview, error) {
	if err := s.ledger.guard.Authorize(actor, op, ""); err != nil {
		return nil, err
	}
	var ov balance.Overview
	_ = s.ledger.read(func() error {
		ov = s.ledger.calc.Overview()
		return nil
	})
	return &ov, nil
}
