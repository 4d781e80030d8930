package page

// Answers are dialogs decided ahead of time, for hosts that cannot block on the user.
// Alerts are only recorded by the Document.
type Answers struct {
	ConfirmAll bool
	Asked      []string
}

// Alert implements Dialogs
func (a *Answers) Alert(string) {}

// Confirm implements Dialogs
func (a *Answers) Confirm(message string) bool {
	a.Asked = append(a.Asked, message)
	return a.ConfirmAll
}
