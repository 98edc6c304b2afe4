package authz

import "strings"

type anyOf struct {
	preds []Predicate
	name  string
}

// AnyOf allows when any of preds allows. Predicates are evaluated left to
// right and evaluation stops at the first one that allows. Request and object
// levels are evaluated independently, so one predicate may grant the request
// while another grants the object. An empty AnyOf denies.
func AnyOf(preds ...Predicate) Predicate {
	list := compact(preds)
	return anyOf{preds: list, name: joinNames("any", list)}
}

func (a anyOf) Name() string { return a.name }

func (a anyOf) AllowsRequest(req Request) bool {
	for _, p := range a.preds {
		if p.AllowsRequest(req) {
			return true
		}
	}
	return false
}

func (a anyOf) AllowsObject(req Request, res Resource) bool {
	for _, p := range a.preds {
		if p.AllowsObject(req, res) {
			return true
		}
	}
	return false
}

type allOf struct {
	preds []Predicate
	name  string
}

// AllOf allows only when every predicate allows, stopping at the first denial.
// An empty AllOf denies.
func AllOf(preds ...Predicate) Predicate {
	list := compact(preds)
	return allOf{preds: list, name: joinNames("all", list)}
}

func (a allOf) Name() string { return a.name }

func (a allOf) AllowsRequest(req Request) bool {
	if len(a.preds) == 0 {
		return false
	}
	for _, p := range a.preds {
		if !p.AllowsRequest(req) {
			return false
		}
	}
	return true
}

func (a allOf) AllowsObject(req Request, res Resource) bool {
	if len(a.preds) == 0 {
		return false
	}
	for _, p := range a.preds {
		if !p.AllowsObject(req, res) {
			return false
		}
	}
	return true
}

func compact(preds []Predicate) []Predicate {
	out := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func joinNames(op string, preds []Predicate) string {
	names := make([]string, len(preds))
	for i, p := range preds {
		names[i] = p.Name()
	}
	return op + "(" + strings.Join(names, ",") + ")"
}
