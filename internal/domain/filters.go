package domain

// DeploymentFilter narrows down registry queries. Zero values match everything.
type DeploymentFilter struct {
	Namespace    string
	ChainID      uint64
	ContractName string
	MigrationID  uint
}
