package domain

// IconRef désigne une icône de chaîne: une tuile carrée dans une image sprite.
type IconRef struct {
	ID        string `json:"id"`
	SpriteURL string `json:"spriteUrl"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Size      int    `json:"size"`
}
