package domain

type ViewState string

const (
	ViewDisconnected           ViewState = "disconnected"
	ViewConnectedLoading       ViewState = "connected-loading"
	ViewConnectedUninitialized ViewState = "connected-uninitialized"
	ViewConnectedReady         ViewState = "connected-ready"
	ViewConnectedUnavailable   ViewState = "connected-unavailable"
)

type Command string

const (
	CommandConnect    Command = "connect"
	CommandInitialize Command = "initialize"
	CommandSubmit     Command = "submit"
	CommandRefresh    Command = "refresh"
)

// DeriveView projects session and sync state onto a render state. It holds
// no state of its own.
func DeriveView(session Session, sync SyncState) ViewState {
	if !session.Connected() {
		return ViewDisconnected
	}

	switch sync.Status {
	case SyncUninitialized:
		return ViewConnectedUninitialized
	case SyncLoaded:
		return ViewConnectedReady
	case SyncUnavailable:
		return ViewConnectedUnavailable
	default:
		return ViewConnectedLoading
	}
}

// Commands lists the user commands offered in this state.
func (v ViewState) Commands() []Command {
	switch v {
	case ViewDisconnected:
		return []Command{CommandConnect}
	case ViewConnectedUninitialized:
		return []Command{CommandInitialize}
	case ViewConnectedReady:
		return []Command{CommandSubmit, CommandRefresh}
	case ViewConnectedUnavailable:
		return []Command{CommandRefresh}
	default:
		return nil
	}
}

func (v ViewState) Offers(cmd Command) bool {
	for _, offered := range v.Commands() {
		if offered == cmd {
			return true
		}
	}
	return false
}
