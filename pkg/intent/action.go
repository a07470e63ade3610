package intent

// Action is a workflow the chat dashboard can trigger.
type Action string

const (
	ActionStart        Action = "start"
	ActionEnd          Action = "end"
	ActionCreateTicket Action = "createTicket"
	ActionListTickets  Action = "listTickets"
)

// ActionOrder is the order in which the fuzzy pass tries actions.
// listTickets is tried before createTicket so "view tickets" never
// resolves to the singular form.
var ActionOrder = []Action{
	ActionStart,
	ActionEnd,
	ActionListTickets,
	ActionCreateTicket,
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	for _, known := range ActionOrder {
		if a == known {
			return true
		}
	}
	return false
}

// Result kinds
const (
	KindMatch   = "match"
	KindNoMatch = "noMatch"
)

// Result is the outcome of classifying one line of text.
type Result struct {
	Kind   string `json:"kind"`
	Action Action `json:"action,omitempty"`
	Note   string `json:"note,omitempty"`
}

// NoMatch is returned when nothing in the table applies.
func NoMatch() Result {
	return Result{Kind: KindNoMatch}
}

// Match builds a matched result. note may be empty.
func Match(action Action, note string) Result {
	return Result{Kind: KindMatch, Action: action, Note: note}
}

// Matched reports whether the result carries an action.
func (r Result) Matched() bool {
	return r.Kind == KindMatch
}
