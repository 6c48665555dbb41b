package rules

const (
	// HaltCauseWallCollision is the halt reason when the head would leave the grid
	HaltCauseWallCollision = "wall-collision"
	// HaltCauseSelfCollision is the halt reason when the head would enter its own body
	HaltCauseSelfCollision = "self-collision"
)
