package core

// DBOrdering is a single ORDER BY term resolved from an `?ordering=` query
// parameter. Repositories map Field against their own allow-lists.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
