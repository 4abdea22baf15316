package models

import "time"

// MaxTotalFunding bounds a project's Pagu so cross-project totals stay within int64.
const MaxTotalFunding int64 = 1_000_000_000_000_000

// Project is a research project and its funding ceiling (Pagu).
// TotalFunding caps the sum of all budget items allocated under it.
type Project struct {
	ID               string    `json:"id"`
	ProjectName      string    `json:"project_name"`
	OrganizationName string    `json:"organization_name"`
	ProjectType      string    `json:"project_type"`
	LeaderName       string    `json:"leader_name"`
	TotalFunding     int64     `json:"total_funding"`
	ProposalNumber   string    `json:"proposal_number"`
	ProposalFile     string    `json:"proposal_file,omitempty"`
	ContractNumber   string    `json:"contract_number"`
	ContractFile     string    `json:"contract_file,omitempty"`
	SKNumber         string    `json:"sk_number"`
	SKFile           string    `json:"sk_file,omitempty"`
	SP2DNumber       string    `json:"sp2d_number"`
	SP2DFile         string    `json:"sp2d_file,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
