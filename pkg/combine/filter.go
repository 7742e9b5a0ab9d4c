package combine

// Reason explains a filter decision.
type Reason string

const (
	ReasonAccepted  Reason = "accepted"
	ReasonNotIncl   Reason = "extension not included"
	ReasonExcluded  Reason = "extension excluded"
	ReasonTooLarge  Reason = "exceeds size limit"
	ReasonBinary    Reason = "binary file"
	ReasonReadError Reason = "read error"
)

// AcceptExtension applies the include and exclude rules.
func (fc *FilterConfig) AcceptExtension(ext string) (bool, Reason) {
	ext = normalizeExt(ext)
	if len(fc.include) > 0 {
		if _, ok := fc.include[ext]; !ok {
			return false, ReasonNotIncl
		}
	}
	if _, ok := fc.exclude[ext]; ok {
		return false, ReasonExcluded
	}
	return true, ReasonAccepted
}

// AcceptSize applies the size limit. A file of exactly the limit is accepted.
func (fc *FilterConfig) AcceptSize(size int64) (bool, Reason) {
	if limit := fc.MaxSize(); limit > 0 && size > limit {
		return false, ReasonTooLarge
	}
	return true, ReasonAccepted
}

// AcceptBinary rejects binary files unless they were explicitly requested.
func (fc *FilterConfig) AcceptBinary(binary bool) (bool, Reason) {
	if binary && !fc.includeBinary {
		return false, ReasonBinary
	}
	return true, ReasonAccepted
}

// Decide applies all rules in precedence order and reports the first failing one.
func (fc *FilterConfig) Decide(task FileTask, size int64, binary bool) (bool, Reason) {
	if ok, why := fc.AcceptExtension(task.Ext); !ok {
		return false, why
	}
	if ok, why := fc.AcceptSize(size); !ok {
		return false, why
	}
	return fc.AcceptBinary(binary)
}

// Accept reports whether a file with the given size and classification is kept.
func (fc *FilterConfig) Accept(task FileTask, size int64, binary bool) bool {
	ok, _ := fc.Decide(task, size, binary)
	return ok
}
