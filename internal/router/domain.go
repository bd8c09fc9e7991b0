package router

// Domain tags which tool family a resolution belongs to.
type Domain int

const (
	DomainNone Domain = iota
	DomainAutomotive
	DomainTrainer
	DomainStrategyGame
	DomainUtility
	DomainFilesystem
	DomainVersionControl
)

func (d Domain) String() string {
	switch d {
	case DomainAutomotive:
		return "automotive"
	case DomainTrainer:
		return "trainer"
	case DomainStrategyGame:
		return "strategy-game"
	case DomainUtility:
		return "utility"
	case DomainFilesystem:
		return "filesystem"
	case DomainVersionControl:
		return "version-control"
	}
	return "none"
}

// DefaultDomains maps server names to their tool family. Servers not
// listed are utilities.
func DefaultDomains() map[string]Domain {
	return map[string]Domain{
		"auto_advisor":   DomainAutomotive,
		"cars":           DomainAutomotive,
		"chatbot_server": DomainTrainer,
		"trainer":        DomainTrainer,
		"pokevgc":        DomainStrategyGame,
		"filesystem":     DomainFilesystem,
		"git":            DomainVersionControl,
	}
}

func (r *Router) domainOf(server string) Domain {
	if d, ok := r.domains[server]; ok {
		return d
	}
	return DomainUtility
}

// ParseDomain is the inverse of Domain.String.
func ParseDomain(s string) (Domain, bool) {
	for d := DomainNone; d <= DomainVersionControl; d++ {
		if d.String() == s {
			return d, true
		}
	}
	return DomainNone, false
}
