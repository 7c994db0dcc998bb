package contract

import "github.com/CBirkbeck/modulechoices/internal/app"

type StatusRequest = app.StatusRequest

func NewStatusRequest() StatusRequest {
	return app.NewStatusRequest()
}

type BucketLoad = app.BucketLoad

type YearLoad = app.YearLoad

type StatusResponse = app.StatusResponse
