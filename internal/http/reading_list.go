package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/readinglist"
)

// StoreResolver picks the reading list store for a request.
type StoreResolver func(c *gin.Context) *readinglist.Store

// ReadingListController handles reading list endpoints.
type ReadingListController struct {
	resolve StoreResolver
}

func NewReadingListController(resolve StoreResolver) *ReadingListController {
	return &ReadingListController{resolve: resolve}
}

// ReadingListResponse is returned by every reading list endpoint.
type ReadingListResponse struct {
	Items  readinglist.List               `json:"items"`
	Counts map[entities.ProgressState]int `json:"counts"`
	Total  int                            `json:"total"`
}

// UpdateProgressRequest is the body of the progress PATCH endpoints.
type UpdateProgressRequest struct {
	Progress string `json:"progress" form:"progress" binding:"required"`
}

// ProgressStateInfo describes one selectable progress state.
type ProgressStateInfo struct {
	Value entities.ProgressState `json:"value"`
	Label string                 `json:"label"`
}

func newReadingListResponse(list readinglist.List) ReadingListResponse {
	if list == nil {
		list = readinglist.List{}
	}
	return ReadingListResponse{
		Items:  list,
		Counts: readinglist.Counts(list),
		Total:  len(list),
	}
}

// List handles GET /api/reading-list
func (rc *ReadingListController) List(c *gin.Context) {
	c.JSON(http.StatusOK, newReadingListResponse(rc.resolve(c).Items()))
}

// Add handles POST /api/reading-list
func (rc *ReadingListController) Add(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondBadRequest(c, "invalid_body", "invalid book: "+err.Error())
		return
	}
	if book.Title == "" {
		respondBadRequest(c, "invalid_body", "title is required")
		return
	}
	if book.ISBN == "" {
		book.ISBN = entities.NotAvailable
	}

	list := rc.resolve(c).Add(book)
	c.JSON(http.StatusCreated, newReadingListResponse(list))
}

// UpdateProgress handles PATCH /api/reading-list?isbn=
// Every entry with the ISBN is updated.
func (rc *ReadingListController) UpdateProgress(c *gin.Context) {
	isbn, ok := requireISBN(c)
	if !ok {
		return
	}
	progress, ok := bindProgress(c)
	if !ok {
		return
	}

	list, err := rc.resolve(c).UpdateProgress(isbn, progress)
	if err != nil {
		respondInternalError(c, err, "update progress")
		return
	}
	c.JSON(http.StatusOK, newReadingListResponse(list))
}

// Remove handles DELETE /api/reading-list?isbn=
// Every entry with the ISBN is removed; an unknown ISBN is not an error.
func (rc *ReadingListController) Remove(c *gin.Context) {
	isbn, ok := requireISBN(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newReadingListResponse(rc.resolve(c).Remove(isbn)))
}

// UpdateEntryProgress handles PATCH /api/reading-list/entries/:id
func (rc *ReadingListController) UpdateEntryProgress(c *gin.Context) {
	progress, ok := bindProgress(c)
	if !ok {
		return
	}

	list, err := rc.resolve(c).UpdateEntryProgress(c.Param("id"), progress)
	if err != nil {
		rc.respondEntryError(c, err, "update entry progress")
		return
	}
	c.JSON(http.StatusOK, newReadingListResponse(list))
}

// RemoveEntry handles DELETE /api/reading-list/entries/:id
func (rc *ReadingListController) RemoveEntry(c *gin.Context) {
	list, err := rc.resolve(c).RemoveEntry(c.Param("id"))
	if err != nil {
		rc.respondEntryError(c, err, "remove entry")
		return
	}
	c.JSON(http.StatusOK, newReadingListResponse(list))
}

// ProgressStates handles GET /api/progress-states
func (rc *ReadingListController) ProgressStates(c *gin.Context) {
	states := entities.ProgressStates()
	out := make([]ProgressStateInfo, 0, len(states))
	for _, state := range states {
		out = append(out, ProgressStateInfo{Value: state, Label: state.Label()})
	}
	c.JSON(http.StatusOK, gin.H{"states": out})
}

func (rc *ReadingListController) respondEntryError(c *gin.Context, err error, context string) {
	if errors.Is(err, readinglist.ErrEntryNotFound) {
		respondNotFound(c, "reading list entry")
		return
	}
	respondInternalError(c, err, context)
}

func requireISBN(c *gin.Context) (string, bool) {
	isbn := c.Query("isbn")
	if isbn == "" {
		respondBadRequest(c, "missing_isbn", "isbn query parameter is required")
		return "", false
	}
	return isbn, true
}

func bindProgress(c *gin.Context) (entities.ProgressState, bool) {
	var req UpdateProgressRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid_body", "progress is required")
		return "", false
	}

	progress, err := entities.ParseProgress(req.Progress)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   err.Error(),
			Code:    "invalid_progress",
			Details: entities.ProgressStates(),
		})
		return "", false
	}
	return progress, true
}
