package domain

// ListingDetail regroupe les métadonnées d'une diffusion, chargées à la demande.
type ListingDetail struct {
	Ref         string `json:"ref"`
	Title       string `json:"title"`
	ChannelName string `json:"channel"`
	// Year est nil quand la source ne le donne pas.
	Year        *int   `json:"year,omitempty"`
	Description string `json:"description"`
	Genre       string `json:"genre,omitempty"`
	Country     string `json:"country,omitempty"`
}

func (d ListingDetail) HasYear() bool { return d.Year != nil }
