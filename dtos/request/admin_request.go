package request

type CreateStationRequest struct {
	Name string `json:"name" validate:"required,station"`
}
