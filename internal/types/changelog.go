package types

// ChangeItem is one entry of a CI change set.
type ChangeItem struct {
	Author  string
	Message string
}

// CIContext identifies the CI job a changelog is fetched for.
type CIContext struct {
	ServerURL   string
	JobName     string
	BuildNumber string
}
