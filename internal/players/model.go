package players

type Player struct {
	ID    string
	Name  string
	Ready bool
	Host  bool
}
