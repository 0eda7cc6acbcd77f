package events

// Settings holds Redis Streams transport configuration for rewrite events.
type Settings struct {
	Enabled  bool
	Addr     string
	Group    string
	Consumer string
}

func DefaultSettings() Settings {
	return Settings{
		Enabled:  false,
		Addr:     "localhost:6379",
		Group:    "anger-translator",
		Consumer: "tui-1",
	}
}
