package domain

// Actor identifies the signed-in user performing a mutation. The daemon trusts
// the admin UI to supply it; there is no authentication layer here.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func (a Actor) Valid() bool {
	return a.ID != ""
}
