package rules

// GameStatus is the lifecycle state of a hosted game.
type GameStatus string

const (
	// GameStatusStopped represents a game that has been created but not picked up
	GameStatusStopped GameStatus = "stopped"
	// GameStatusRunning represents a running game
	GameStatusRunning GameStatus = "running"
	// GameStatusError represents a game that ended because of an error
	GameStatusError GameStatus = "error"
	// GameStatusComplete represents a game that is done
	GameStatusComplete GameStatus = "complete"
)
