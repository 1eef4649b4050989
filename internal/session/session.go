package session

// Session is the ephemeral per-client authentication state. Two states:
// logged out (zero value) and logged in as Username. It is a value threaded
// through calls, never a process-wide flag.
type Session struct {
	LoggedIn bool
	Username string
}

func LoggedIn(username string) Session {
	return Session{LoggedIn: true, Username: username}
}

// Logout returns the logged-out state. Always available from LoggedIn.
func (s Session) Logout() Session {
	return Session{}
}
