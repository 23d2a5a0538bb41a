// internal/api/triggers.go
package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"sitenotify/internal/mergetag"
)

type triggerView struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type triggerGroupView struct {
	Group    string        `json:"group"`
	Triggers []triggerView `json:"triggers"`
}

type mergeTagView struct {
	Key               string `json:"key"`
	Label             string `json:"label"`
	Description       string `json:"description"`
	RestrictToTrigger string `json:"restrict_to_trigger,omitempty"`
}

type mergeTagGroupView struct {
	Slug string         `json:"slug"`
	Name string         `json:"name"`
	Tags []mergeTagView `json:"tags"`
}

func (s *Server) listTriggers(c *gin.Context) {
	byGroup := s.triggers.ByGroup()

	groups := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	out := make([]triggerGroupView, 0, len(groups))
	for _, g := range groups {
		views := make([]triggerView, 0, len(byGroup[g]))
		for _, d := range byGroup[g] {
			views = append(views, triggerView{Slug: d.Slug, Name: d.Name, Description: d.Description})
		}
		out = append(out, triggerGroupView{Group: g, Triggers: views})
	}

	c.JSON(http.StatusOK, gin.H{"groups": out})
}

// listMergeTags lists the merge tag groups available to one trigger,
// in the same order substitution consults them.
func (s *Server) listMergeTags(c *gin.Context) {
	slug := c.Param("slug")

	desc, ok := s.triggers.Get(slug)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "trigger not found"})
		return
	}

	registry := s.engine.Registry()
	slugs := append(append([]string{}, desc.MergeTagGroups...), mergetag.GeneralGroupSlug)

	out := make([]mergeTagGroupView, 0, len(slugs))
	for _, gs := range slugs {
		g, ok := registry.Group(gs)
		if !ok {
			continue
		}
		tags := make([]mergeTagView, 0)
		for _, t := range g.Tags() {
			tags = append(tags, mergeTagView{
				Key:               t.Key,
				Label:             t.Label,
				Description:       t.Description,
				RestrictToTrigger: t.RestrictToTrigger,
			})
		}
		out = append(out, mergeTagGroupView{Slug: g.Slug, Name: g.Name, Tags: tags})
	}

	c.JSON(http.StatusOK, gin.H{"trigger": slug, "groups": out})
}
