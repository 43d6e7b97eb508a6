package model

// VoteSets names the tables backing an entity's two disjoint vote sets.
// Question and Answer share one toggle implementation through it.
type VoteSets struct {
	EntityTable string
	OwnerColumn string
	UpTable     string
	DownTable   string
}

type Votable interface {
	VoteSets() VoteSets
}
