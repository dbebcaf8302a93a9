package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jask/rangmanch/internal/library"
	"github.com/jask/rangmanch/internal/nav"
	"github.com/jask/rangmanch/internal/service"
)

// ContentItemResponse is the wire form of a content item.
type ContentItemResponse struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Views     int    `json:"views"`
	ShowViews bool   `json:"showViews"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ContentListResponse is the body of GET /api/content.
type ContentListResponse struct {
	Items       []ContentItemResponse `json:"items"`
	Count       int                   `json:"count"`
	Total       int                   `json:"total"`
	Options     library.FilterOptions `json:"options"`
	Sort        string                `json:"sort"`
	Direction   string                `json:"direction"`
	Suggestions []string              `json:"suggestions,omitempty"`
}

// NewContentItemResponse is the wire form of an item shared by the API and the CLI.
func NewContentItemResponse(it library.ContentItem) ContentItemResponse {
	return ContentItemResponse{
		ID:        it.ID,
		Title:     it.Title,
		Type:      it.Type,
		Date:      it.DateISO(),
		Status:    it.Status,
		Views:     it.Views,
		ShowViews: it.ShowsViews(),
		Thumbnail: it.Thumbnail,
	}
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) configHandler(c *gin.Context) {
	cfg := s.Config
	c.JSON(http.StatusOK, gin.H{
		"ui": gin.H{
			"compactWidth":    cfg.UI.CompactWidth,
			"keepManualPanel": cfg.UI.KeepManualPanel,
			"dateFormat":      cfg.UI.DateFormat,
			"animations":      cfg.UI.Animations,
		},
		"library": gin.H{
			"defaultSort":      cfg.Library.DefaultSort,
			"defaultDirection": cfg.Library.DefaultDirection,
			"collation":        cfg.Library.Collation,
		},
		"theme": cfg.Theme,
	})
}

// queryValues reads a multi-valued parameter given either repeated
// (?type=a&type=b) or comma separated (?type=a,b).
func queryValues(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// parseQuery builds a QueryState from the request. Unknown sort keys and
// directions are rejected here; the engine itself never fails.
func (s *Server) parseQuery(c *gin.Context) (library.QueryState, error) {
	q := service.DefaultQuery(s.Config.Library).WithSearch(c.Query("search"))
	for _, t := range queryValues(c, "type") {
		if !q.Types.Has(t) {
			q = q.ToggleType(t)
		}
	}
	for _, st := range queryValues(c, "status") {
		if !q.Statuses.Has(st) {
			q = q.ToggleStatus(st)
		}
	}
	key, dir := q.SortKey, q.SortDirection
	if raw := c.Query("sort"); raw != "" {
		k, ok := library.ParseSortKey(raw)
		if !ok {
			return q, fmt.Errorf("unknown sort key %q (want date, title or views)", raw)
		}
		key = k
	}
	if raw := c.Query("dir"); raw != "" {
		d, ok := library.ParseSortDirection(raw)
		if !ok {
			return q, fmt.Errorf("unknown sort direction %q (want asc or desc)", raw)
		}
		dir = d
	}
	return q.WithSort(key, dir), nil
}

func (s *Server) listContentHandler(c *gin.Context) {
	q, err := s.parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := s.Library.View(c.Request.Context(), q)
	if err != nil {
		s.internalError(c, err)
		return
	}
	resp := ContentListResponse{
		Items:       make([]ContentItemResponse, 0, len(v.Items)),
		Count:       len(v.Items),
		Total:       v.Total,
		Options:     v.Options,
		Sort:        string(q.SortKey),
		Direction:   string(q.SortDirection),
		Suggestions: v.Suggestions,
	}
	for _, it := range v.Items {
		resp.Items = append(resp.Items, NewContentItemResponse(it))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) contentOptionsHandler(c *gin.Context) {
	items, err := s.Library.Catalog(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}
	presets := library.Presets()
	out := make([]gin.H, 0, len(presets))
	for _, p := range presets {
		out = append(out, gin.H{"label": p.Label, "sort": p.Key, "direction": p.Direction})
	}
	c.JSON(http.StatusOK, gin.H{"filters": library.Options(items), "presets": out})
}

func itemID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func (s *Server) getContentHandler(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	item, err := s.Library.Get(c.Request.Context(), id)
	if err != nil {
		s.internalError(c, err)
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
		return
	}
	c.JSON(http.StatusOK, NewContentItemResponse(*item))
}

func (s *Server) duplicateContentHandler(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	cp, err := s.Library.Duplicate(c.Request.Context(), id)
	if err != nil {
		s.internalError(c, err)
		return
	}
	if cp == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
		return
	}
	c.JSON(http.StatusCreated, NewContentItemResponse(*cp))
}

func (s *Server) deleteContentHandler(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	removed, err := s.Library.Delete(c.Request.Context(), id)
	if err != nil {
		s.internalError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) sectionHandler(c *gin.Context) {
	current := nav.SectionDashboard
	if raw := c.Query("current"); raw != "" {
		sec, ok := nav.ParseSection(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown section %q", raw)})
			return
		}
		current = sec
	}
	path := c.Query("path")
	_, matched := nav.SectionForPath(path)
	section := nav.ResolveSection(current, path)
	c.JSON(http.StatusOK, gin.H{"section": section, "title": section.Title(), "matched": matched})
}

func (s *Server) navItemsHandler(c *gin.Context) {
	items := nav.Items()
	out := make([]gin.H, 0, len(items))
	for _, it := range items {
		out = append(out, gin.H{"group": it.Group, "label": it.Label, "path": it.Path, "section": it.Section})
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (s *Server) dashboardHandler(c *gin.Context) {
	d, err := s.Insights.Dashboard(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) analyticsHandler(c *gin.Context) {
	r, ok := service.ParseRange(c.Query("range"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "range must be 7d, 30d or 90d"})
		return
	}
	a, err := s.Insights.Analytics(c.Request.Context(), r)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) audienceHandler(c *gin.Context) {
	a, err := s.Insights.Audience(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) generateHandler(c *gin.Context) {
	req := service.DefaultRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := s.Tasks.Start("generate", func(ctx context.Context) (any, error) {
		res, err := s.Generator.Generate(ctx, req)
		if err != nil {
			return nil, err
		}
		return res, nil
	})
	c.JSON(http.StatusAccepted, gin.H{"taskId": id})
}

func (s *Server) taskHandler(c *gin.Context) {
	task, ok := s.Tasks.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) internalError(c *gin.Context, err error) {
	if errors.Is(err, context.Canceled) {
		c.Status(499)
		return
	}
	s.logger().Error("request failed", "path", c.Request.URL.Path, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
