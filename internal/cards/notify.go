package cards

// GenericFailureMessage is shown to the user whenever a request fails.
const GenericFailureMessage = "An error has occurred"

// CopiedPasswordMessage is shown after the draft password was copied.
const CopiedPasswordMessage = "Copied the password!"

// Notifier surfaces blocking, user-visible messages (the CLI prints them,
// the interactive view shows them in its status line).
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Clipboard receives text copied by the user.
type Clipboard interface {
	WriteText(text string) error
}
