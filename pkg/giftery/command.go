package giftery

// Command names a remote API operation.
type Command string

const (
	CommandGetBalance  Command = "getBalance"
	CommandGetProducts Command = "getProducts"
	CommandMakeOrder   Command = "makeOrder"
)

// Commands lists every command the remote API accepts.
func Commands() []Command {
	return []Command{CommandGetBalance, CommandGetProducts, CommandMakeOrder}
}

// Valid reports whether c is one of the supported commands.
func (c Command) Valid() bool {
	switch c {
	case CommandGetBalance, CommandGetProducts, CommandMakeOrder:
		return true
	default:
		return false
	}
}

func (c Command) String() string { return string(c) }

// Mode selects where the payload and signature travel.
type Mode int

const (
	// ModeGet puts every parameter into the query string.
	ModeGet Mode = iota
	// ModePost keeps cmd, id, in and out in the query string and sends
	// data and sig as a form-encoded body.
	ModePost
)

func (m Mode) String() string {
	switch m {
	case ModeGet:
		return "GET"
	case ModePost:
		return "POST"
	default:
		return "unknown"
	}
}
