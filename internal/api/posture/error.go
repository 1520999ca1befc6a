package posture

import (
	"PostureGuard/pkg/response"
	"net/http"
)

var (
	ErrNoFrame          = response.NewError(http.StatusBadRequest, "No frame provided")
	ErrNoVideo          = response.NewError(http.StatusBadRequest, "No video provided")
	ErrInvalidLandmarks = response.NewError(http.StatusBadRequest, "Landmarks must contain 33 [x, y, z] points")
)
