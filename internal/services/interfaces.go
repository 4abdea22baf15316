package services

import (
	"context"
	"time"

	"grantledger/internal/balance"
	"grantledger/internal/models"
	"grantledger/internal/pagination"
)

// UserServicer defines the contract for user directory lookups.
type UserServicer interface {
	Authenticate(username, secret string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
}

// ProjectInput carries the editable fields of a project.
type ProjectInput struct {
	ProjectName      string
	OrganizationName string
	ProjectType      string
	LeaderName       string
	TotalFunding     int64
	ProposalNumber   string
	ProposalFile     string
	ContractNumber   string
	ContractFile     string
	SKNumber         string
	SKFile           string
	SP2DNumber       string
	SP2DFile         string
}

// ProjectServicer defines the contract for project-related business logic.
type ProjectServicer interface {
	CreateProject(ctx context.Context, actor models.User, input ProjectInput) (*models.Project, error)
	GetProject(actor models.User, projectID string) (*models.Project, error)
	ListProjects(actor models.User, search string, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error)
	UpdateProject(ctx context.Context, actor models.User, projectID string, input ProjectInput) (*models.Project, error)
	DeleteProject(ctx context.Context, actor models.User, projectID string) error
}

// BudgetItemServicer defines the contract for RAB line business logic.
type BudgetItemServicer interface {
	AddBudgetItem(ctx context.Context, actor models.User, projectID, category string, amount int64) (*models.BudgetItem, error)
	ListBudgetItems(actor models.User, projectID string) ([]models.BudgetItem, error)
	UpdateBudgetItem(ctx context.Context, actor models.User, budgetItemID, category string, amount *int64) (*models.BudgetItem, error)
	DeleteBudgetItem(ctx context.Context, actor models.User, budgetItemID string) error
	GetCategoryStats(actor models.User, budgetItemID string) (*balance.CategoryStats, error)
}

// ReceiptInput holds the fields of a new receipt.
type ReceiptInput struct {
	BudgetItemID string
	Amount       int64
	Description  string
	SPJLink      string
	Date         time.Time
}

// ReceiptUpdate holds optional changes to a receipt. Nil fields are kept.
type ReceiptUpdate struct {
	BudgetItemID *string
	Amount       *int64
	Description  *string
	SPJLink      *string
	Date         *time.Time
}

// ReceiptFilter holds optional filter parameters for listing receipts.
type ReceiptFilter struct {
	IsVerified   *bool
	BudgetItemID string
}

// ReceiptServicer defines the contract for receipt and verification logic.
type ReceiptServicer interface {
	AddReceipt(ctx context.Context, actor models.User, projectID string, input ReceiptInput) (*models.Receipt, error)
	GetReceipt(actor models.User, receiptID string) (*models.Receipt, error)
	ListReceipts(actor models.User, projectID string, filter ReceiptFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Receipt], error)
	UpdateReceipt(ctx context.Context, actor models.User, receiptID string, update ReceiptUpdate) (*models.Receipt, error)
	DeleteReceipt(ctx context.Context, actor models.User, receiptID string) error
	SetVerified(ctx context.Context, actor models.User, receiptID string, verified bool) (*models.Receipt, error)
}

// ReportServicer defines the contract for read-only balance reports.
type ReportServicer interface {
	GetProjectSummary(actor models.User, projectID string) (*balance.ProjectSummary, error)
	GetOverview(actor models.User) (*balance.Overview, error)
	RealizationReport(actor models.User) (*balance.Overview, error)
}
