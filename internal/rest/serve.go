// Copyright (C) 2025 The SimCaD Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package rest

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simcad/simcad/internal/generate"
)

func Serve() {
	r := gin.Default()
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/ping", getPing)
			v1.POST("/generate", postGenerate)
			v1.POST("/preview", postPreview)
		}
	}
	r.Run() // listen and serve on 0.0.0.0:8080
}

func getPing(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "pong",
	})
}

// Binds the posted JSON onto the default config, so requests only need to
// name the parameters they change.
func bindConfig(c *gin.Context) (*generate.Config, bool) {
	cfg := generate.NewConfigDefault()
	if err := c.ShouldBindJSON(cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return cfg, true
}

// Runs the generator and returns the ground truth bundle as JSON, with the
// movie tensor included as raw frame-major bytes.
func postGenerate(c *gin.Context) {
	cfg, ok := bindConfig(c)
	if !ok {
		return
	}

	var log bytes.Buffer
	ctx := generate.NewContext(&log)
	res, err := generate.Generate(cfg, ctx)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "log": log.String()})
		return
	}

	footprints := make([][]float32, len(res.Footprints))
	for i, fp := range res.Footprints {
		footprints[i] = fp.Data
	}
	c.JSON(http.StatusOK, gin.H{
		"config":          cfg,
		"movie":           res.Movie.Data, // frames x height x width, row-major
		"footprints":      footprints,
		"traces":          res.Traces,
		"spikes":          res.Spikes,
		"motionShifts":    res.Shifts,
		"degenerateCells": res.DegenerateCells,
		"log":             log.String(),
	})
}

type previewArgs struct {
	Config *generate.Config `json:"config"`
	Frame  int32            `json:"frame"`
}

// Runs the generator and returns a single movie frame as JPEG.
func postPreview(c *gin.Context) {
	args := previewArgs{Config: generate.NewConfigDefault()}
	if err := c.ShouldBindJSON(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if args.Frame < 0 || args.Frame >= int32(args.Config.NumFrames) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "frame index out of range"})
		return
	}

	var log bytes.Buffer
	ctx := generate.NewContext(&log)
	res, err := generate.Generate(args.Config, ctx)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "log": log.String()})
		return
	}

	var buf bytes.Buffer
	if err := res.Movie.FloatFrame(args.Frame).WriteJPG(&buf, 0, 255, 1.0, 95); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
}

func statusFor(err error) int {
	var ipe *generate.InvalidParameterError
	if errors.As(err, &ipe) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
