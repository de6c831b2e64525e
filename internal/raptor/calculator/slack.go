package calculator

// Slack holds the minimum buffers in seconds. Board slack is the time
// needed before boarding, alight slack the time needed after alighting,
// and transfer slack is added to board slack for every boarding after the
// first.
type Slack struct {
	Board    int `yaml:"board" validate:"gte=0"`
	Alight   int `yaml:"alight" validate:"gte=0"`
	Transfer int `yaml:"transfer" validate:"gte=0"`
}

// SlackProvider returns slack in search direction. In a reverse search the
// board and alight values trade places.
type SlackProvider interface {
	BoardSlack(round int) int
	AlightSlack() int
	TransferSlack() int
}

type slackProvider struct {
	board    int
	alight   int
	transfer int
}

func (s slackProvider) BoardSlack(round int) int {
	if round > 1 {
		return s.board + s.transfer
	}
	return s.board
}

func (s slackProvider) AlightSlack() int   { return s.alight }
func (s slackProvider) TransferSlack() int { return s.transfer }
