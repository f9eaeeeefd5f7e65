package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/specialistvlad/tracegraph/internal/metatype"
)

// metatypeDoc is the JSON shape of one catalog entry.
type metatypeDoc struct {
	Key               string         `json:"key"`
	Name              string         `json:"name"`
	Aliases           []string       `json:"aliases,omitempty"`
	Role              string         `json:"role,omitempty"`
	Traits            []string       `json:"traits,omitempty"`
	HWConfigNames     []string       `json:"hw_config_names,omitempty"`
	OutputChannelAxis *int           `json:"output_channel_axis,omitempty"`
	Subtypes          []*metatypeDoc `json:"subtypes,omitempty"`
}

func newMetatypeDoc(mt *metatype.Metatype) *metatypeDoc {
	doc := &metatypeDoc{
		Key:               mt.Key,
		Name:              mt.Name,
		Aliases:           mt.AllAliases(),
		Role:              mt.Role.String(),
		Traits:            mt.Traits.Names(),
		HWConfigNames:     mt.HWConfigNames,
		OutputChannelAxis: mt.OutputChannelAxis,
	}
	for _, st := range mt.Subtypes {
		doc.Subtypes = append(doc.Subtypes, newMetatypeDoc(st))
	}
	return doc
}

func (s *Server) metatypes(c *gin.Context) {
	roots := s.pipeline.Converter().Registry().Roots()
	docs := make([]*metatypeDoc, 0, len(roots))
	for _, mt := range roots {
		docs = append(docs, newMetatypeDoc(mt))
	}
	c.JSON(http.StatusOK, gin.H{"metatypes": docs})
}
