package domain

// Store is the authoritative holder of the request collection and its
// canonical order. Each call is atomic with respect to the collection;
// implementations serialize concurrent writers.
type Store interface {
	// Create validates input, assigns id, submission time, pending status,
	// and an append-to-end sort position, and returns the stored record.
	Create(input NewRequest) (*Request, error)

	// List returns the full collection in canonical display order.
	List() ([]*Request, error)

	// SetStatus updates a request's workflow state. The store deliberately
	// applies no transition guard: any valid status may follow any other,
	// including transitions out of completed that the clients never issue.
	SetStatus(id int64, status Status) error

	// SetSortPosition repositions a single record without renumbering its
	// siblings; duplicate or gapped positions are tolerated.
	SetSortPosition(id int64, position int) error

	// Reorder assigns sortPosition = index for each id, in one atomic pass,
	// restoring a dense 0..n-1 encoding. Ids not present in the store are
	// silently skipped so the call tolerates races against deletes.
	Reorder(ids []int64) error

	// Delete hard-removes a record. Remaining positions are not renumbered;
	// the next Reorder restores density.
	Delete(id int64) error
}
