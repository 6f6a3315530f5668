// Package server exposes the encoder over HTTP.
package server

import (
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	EncodeHandler *EncodeHandler
}

func Register(r *gin.Engine, d Dependencies) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/encode", d.EncodeHandler.Encode)
		v1.GET("/runs", d.EncodeHandler.ListRuns)
	}
}
