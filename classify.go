package transitgate

import "go.uber.org/zap"

// Classifier resolves severities from the centralized policy table. It never
// inspects the originating stage, only the rule id, so severities are
// tunable without touching validator logic. Classification is deterministic
// and order-independent.
type Classifier struct {
	table SeverityTable
	def   Severity
	log   *zap.Logger
}

// NewClassifier builds a classifier over the given table. Findings whose rule
// id has no entry resolve to def; nothing is ever dropped. A nil logger
// disables the default-classification log.
func NewClassifier(table SeverityTable, def Severity, log *zap.Logger) *Classifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{table: table, def: def, log: log}
}

// Classify maps every finding to a classified finding, preserving order.
// The table is consulted first by full rule id, then by the trailing code, so
// a catalog can tune one concrete rule or a whole code family.
func (c *Classifier) Classify(fs Findings) []ClassifiedFinding {
	out := make([]ClassifiedFinding, 0, len(fs))
	for _, f := range fs {
		sev, ok := c.lookup(f)
		if !ok {
			sev = c.def
			c.log.Warn("finding classified by default severity",
				zap.String("rule_id", f.RuleID),
				zap.String("severity", sev.String()),
			)
		}
		out = append(out, ClassifiedFinding{Finding: f, Severity: sev})
	}
	return out
}

func (c *Classifier) lookup(f Finding) (Severity, bool) {
	if sev, ok := c.table[f.RuleID]; ok {
		return sev, true
	}
	if sev, ok := c.table[f.Code()]; ok {
		return sev, true
	}
	return 0, false
}
