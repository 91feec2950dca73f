package closure

var defaultTable = New[any]()

// Default returns the process-wide closure table.
func Default() *Table[any] {
	return defaultTable
}

// Remember stores v in the process-wide table.
func Remember(v any) Handle {
	return defaultTable.Remember(v)
}

// Recall returns and frees the value stored under h in the process-wide
// table.
func Recall(h Handle) any {
	return defaultTable.Recall(h)
}

// Count returns the number of outstanding handles in the process-wide
// table.
func Count() int {
	return defaultTable.Count()
}
