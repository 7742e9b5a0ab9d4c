package combine

// Aggregate drains slots in ascending discovery order. Absent slots belong to
// filtered tasks and are skipped; errors are collected without stopping.
func Aggregate(slots []ResultSlot) ([]FileRecord, []FileError) {
	var (
		records []FileRecord
		errs    []FileError
	)
	for i := range slots {
		switch s := slots[i]; {
		case s.record != nil:
			records = append(records, *s.record)
		case s.ferr != nil:
			errs = append(errs, *s.ferr)
		}
	}
	return records, errs
}
