package contract

import "github.com/CBirkbeck/modulechoices/internal/app"

type RebuildRequest = app.RebuildRequest

func NewRebuildRequest(entryYear string) RebuildRequest {
	return app.NewRebuildRequest(entryYear)
}

type RebuildResponse = app.RebuildResponse
