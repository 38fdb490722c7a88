package ghl

import "github.com/octobees/digital-card/api/internal/entity"

var interestLabels = map[string]string{
	entity.InterestNetworking:           "Networking",
	entity.InterestContratarServicios:   "Contratar Servicios",
	entity.InterestPodcast:              "Podcast",
	entity.InterestColaboracion:         "Colaboración",
	entity.InterestOportunidadesNegocio: "Oportunidades de Negocio",
	entity.InterestOfrecerServicios:     "Ofrecer Servicios",
}

// InterestLabel maps an interest category to its display label. Unknown values pass through unchanged.
func InterestLabel(interest string) string {
	if label, ok := interestLabels[interest]; ok {
		return label
	}
	return interest
}

// IsKnownInterest reports whether interest is one of the fixed categories.
func IsKnownInterest(interest string) bool {
	_, ok := interestLabels[interest]
	return ok
}
