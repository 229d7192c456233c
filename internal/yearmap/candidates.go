package yearmap

import "github.com/ppiankov/shiji/internal/model"

// candidates accumulates the outcome of the ruler cascade for one mention:
// the chosen ruler if any rule fired, plus the fallbacks remembered on the way.
type candidates struct {
	chosen  string
	method  model.Method
	foreign string // Nearest resolvable ruler of another polity
	raw     string // Nearest plausible name with no reign entry
}

func (c *candidates) choose(ruler string, method model.Method) {
	c.chosen, c.method = ruler, method
}

// rank runs the ruler cascade over the nearby names (nearest first) of a
// reign-year n mention. Rules, first match wins:
//
//	nearby ruler of the dating polity
//	nearest name, when it is the remembered foreign ruler
//	current ruler (sequential); skipped when n == 1 and any name, resolvable
//	or not, is nearby, since a first year after a name opens a new reign
//	section ruler
//	remembered foreign ruler
//
// When nothing is chosen, the nearest clean raw name is kept for a
// synthetic ruler key.
func (r *Resolver) rank(st *chapterState, nearby []string, n int) candidates {
	var c candidates
	var nearest string

	for i, name := range nearby {
		if c.raw == "" && cleanRawName(name) {
			c.raw = name
		}
		ruler, ok := r.resolveName(st, name)
		if !ok {
			continue
		}
		if i == 0 {
			nearest = ruler
		}
		p, _ := r.book.Ruler(ruler)
		if r.samePolity(st, p) {
			c.choose(ruler, model.MethodNearbyRuler)
			return c
		}
		if c.foreign == "" {
			c.foreign = ruler
		}
	}

	switch {
	case c.foreign != "" && nearest == c.foreign:
		c.choose(c.foreign, model.MethodNearbyRuler)
	case st.current != "" && !(n == 1 && len(nearby) > 0):
		c.choose(st.current, model.MethodSequential)
	case st.section != "":
		c.choose(st.section, model.MethodSectionRuler)
	case c.foreign != "":
		c.choose(c.foreign, model.MethodNearbyRuler)
	}
	return c
}
