package guard

import "grantledger/internal/models"

// Operation names a mutation or query subject to role checks.
type Operation string

const (
	OpCreateProject    Operation = "project.create"
	OpUpdateProject    Operation = "project.update"
	OpDeleteProject    Operation = "project.delete"
	OpListAllProjects  Operation = "project.list_all"
	OpViewProject      Operation = "project.view"
	OpViewOverview     Operation = "overview.view"
	OpExportReport     Operation = "report.export"
	OpAddBudgetItem    Operation = "budget_item.add"
	OpEditBudgetItem   Operation = "budget_item.edit"
	OpDeleteBudgetItem Operation = "budget_item.delete"
	OpAddReceipt       Operation = "receipt.add"
	OpEditReceipt      Operation = "receipt.edit"
	OpDeleteReceipt    Operation = "receipt.delete"
	OpSetVerification  Operation = "receipt.verify"
)

type opSet map[Operation]struct{}

func ops(list ...Operation) opSet {
	s := make(opSet, len(list))
	for _, op := range list {
		s[op] = struct{}{}
	}
	return s
}

// capabilities maps each role to the operations it may invoke.
var capabilities = map[models.Role]opSet{
	models.RoleAdmin: ops(
		OpCreateProject, OpUpdateProject, OpDeleteProject,
		OpListAllProjects, OpViewProject, OpViewOverview, OpExportReport,
	),
	models.RoleFinance: ops(
		OpViewProject,
		OpAddBudgetItem, OpEditBudgetItem, OpDeleteBudgetItem,
		OpAddReceipt, OpEditReceipt, OpDeleteReceipt,
	),
	models.RoleVerifier: ops(
		OpViewProject,
		OpSetVerification,
	),
}

// Can reports whether role holds op in the capability table.
func Can(role models.Role, op Operation) bool {
	set, ok := capabilities[role]
	if !ok {
		return false
	}
	_, ok = set[op]
	return ok
}
