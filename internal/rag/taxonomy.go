package rag

// KnowledgeBase identifies one topically-scoped partition of the indexed
// corpus. The set is closed: adding a member requires a taxonomy update
// here and a corresponding backend population.
type KnowledgeBase string

const (
	// KBGrants covers federal and state grant programs, eligibility
	// criteria, and application processes.
	KBGrants KnowledgeBase = "grants"

	// KBCompliance covers HIPAA, CMS rules, audits, and regulatory
	// requirements.
	KBCompliance KnowledgeBase = "compliance"

	// KBITSecurity covers EHR systems, networks, cybersecurity, and
	// technical safeguards.
	KBITSecurity KnowledgeBase = "it_security"

	// KBBilling covers claims, coding, reimbursement, and payer policies.
	KBBilling KnowledgeBase = "billing"

	// KBWorkforce covers staffing, recruitment, credentialing, and training.
	KBWorkforce KnowledgeBase = "workforce"

	// KBTelehealth covers virtual care programs, licensing, and
	// telehealth reimbursement rules.
	KBTelehealth KnowledgeBase = "telehealth"
)

// DefaultKnowledgeBase is the fallback when classification cannot produce
// a usable answer. Grants is the broadest and most commonly queried
// partition.
const DefaultKnowledgeBase = KBGrants

// kbEntry pairs a knowledge base with the one-line description the
// classifier prompt shows the model.
type kbEntry struct {
	id   KnowledgeBase
	desc string
}

// taxonomy is the ordered list of knowledge bases. Order is stable so the
// classifier prompt is deterministic.
var taxonomy = []kbEntry{
	{KBGrants, "federal and state grant programs, funding opportunities, eligibility, applications"},
	{KBCompliance, "HIPAA, CMS regulations, audits, policy and regulatory requirements"},
	{KBITSecurity, "EHR systems, networks, cybersecurity, technical safeguards, IT infrastructure"},
	{KBBilling, "claims, medical coding, reimbursement, payer policies, revenue cycle"},
	{KBWorkforce, "staffing, recruitment, credentialing, retention, training programs"},
	{KBTelehealth, "virtual care programs, telehealth licensing and reimbursement rules"},
}

// KnowledgeBases returns all members of the taxonomy in prompt order.
func KnowledgeBases() []KnowledgeBase {
	ids := make([]KnowledgeBase, len(taxonomy))
	for i, e := range taxonomy {
		ids[i] = e.id
	}
	return ids
}
