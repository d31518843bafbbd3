package response

import "github.com/daniil11ru/tracker/cli/tracker/types"

type StartEndLocation struct {
	StartLocation types.Position2D `json:"start_location"`
	EndLocation   types.Position2D `json:"end_location"`
}
