package mirror

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Fixture *Fixture
}

func NewHandler(f *Fixture) *Handler {
	return &Handler{Fixture: f}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/listing-search/coordinates", h.a4mIndex)                  // A4M index search
	r.GET("/listing-search/listings", h.a4mDetail)                    // A4M detail, ?id[]=
	r.POST("/WebServices/FinderService__c.asmx/Search", h.aanpSearch) // AANP finder
}

// NewRouter returns a gin engine serving f.
func NewRouter(f *Fixture) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	NewHandler(f).RegisterRoutes(r)
	return r
}

type indexEntry struct {
	ID        string `json:"id"`
	SortAlpha string `json:"sortAlpha"`
}

func (h *Handler) a4mIndex(c *gin.Context) {
	out := make([]indexEntry, 0, len(h.Fixture.A4M))
	for _, l := range h.Fixture.A4M {
		out = append(out, indexEntry{ID: l.ID, SortAlpha: l.SortAlpha})
	}
	c.JSON(http.StatusOK, gin.H{"message": out})
}

func (h *Handler) a4mDetail(c *gin.Context) {
	ids := c.QueryArray("id[]")
	out := make([]A4MListing, 0, len(ids))
	for _, id := range ids {
		for _, l := range h.Fixture.A4M {
			if l.ID == id {
				out = append(out, l)
				break
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": out})
}

type searchRequest struct {
	Query struct {
		Center struct {
			Latitude  float64 `json:"Latitude"`
			Longitude float64 `json:"Longitude"`
		} `json:"Center"`
		Radius float64 `json:"Radius"`
	} `json:"query"`
}

func (h *Handler) aanpSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}
	center := req.Query.Center

	matches := make([]AANPPractitioner, 0)
	for _, p := range h.Fixture.AANP {
		if p.Latitude != nil && p.Longitude != nil &&
			distanceMiles(center.Latitude, center.Longitude, *p.Latitude, *p.Longitude) > req.Query.Radius {
			continue
		}
		matches = append(matches, p)
	}

	inner, err := json.Marshal(matches)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"d": string(inner)})
}
