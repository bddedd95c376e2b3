package domain

// Categories is the fixed marketplace taxonomy. Gigs carry exactly one,
// freelancers any subset.
var Categories = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX Design",
	"Graphic Design",
	"Content Writing",
	"Video Editing",
	"Social Media",
	"Data Entry",
	"Virtual Assistant",
	"Translation",
	"Tutoring",
	"Photography",
	"Music & Audio",
	"Marketing",
	"Delivery",
	"Other",
}

// IsCategory reports whether name is one of Categories (exact match).
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
