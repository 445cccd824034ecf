package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/errs"
	"github.com/studyforge/studyforge/models"
)

// RegisterKanbanRoutes mounts boards, columns and tasks.
func RegisterKanbanRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/boards/:id", func(c *gin.Context) { getBoard(c, h) })
	rg.DELETE("/boards/:id", func(c *gin.Context) { deleteBoard(c, h) })

	rg.POST("/boards/:id/columns", func(c *gin.Context) { createColumn(c, h) })
	rg.PUT("/boards/:id/columns/:columnId", func(c *gin.Context) { updateColumn(c, h) })
	rg.DELETE("/boards/:id/columns/:columnId", func(c *gin.Context) { deleteColumn(c, h) })

	rg.POST("/boards/:id/columns/:columnId/tasks", func(c *gin.Context) { createTask(c, h) })
	rg.PUT("/boards/:id/columns/:columnId/tasks/:taskId", func(c *gin.Context) { updateTask(c, h) })
	rg.DELETE("/boards/:id/columns/:columnId/tasks/:taskId", func(c *gin.Context) { deleteTask(c, h) })
}

func listWorkspaceBoards(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := findScoped[models.Workspace](h, c, id, "workspace"); !ok {
		return
	}
	var boards []models.KanbanBoard
	if err := h.scoped(c).Where("workspace_id = ?", id).Order("id").Find(&boards).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

func createBoard(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.KanbanBoardDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	if _, ok := findScoped[models.Workspace](h, c, id, "workspace"); !ok {
		return
	}
	board := models.KanbanBoard{WorkspaceID: id, Name: dto.Name}
	if err := h.DB.WithContext(h.ctx(c)).Create(&board).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}

func getBoard(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var board models.KanbanBoard
	err := h.scoped(c).
		Preload("Columns", func(db *gorm.DB) *gorm.DB { return db.Order("position, id") }).
		Preload("Columns.Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("position, id") }).
		First(&board, id).Error
	if err != nil {
		errs.Abort(c, errs.FromDB(err, "kanban board"))
		return
	}
	c.JSON(http.StatusOK, board)
}

func deleteBoard(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	board, ok := findScoped[models.KanbanBoard](h, c, id, "kanban board")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(board).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// boardOwned verifies the board belongs to the current tenant.
func boardOwned(c *gin.Context, h *Handlers) (uint, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return 0, false
	}
	if _, ok := findScoped[models.KanbanBoard](h, c, id, "kanban board"); !ok {
		return 0, false
	}
	return id, true
}

func createColumn(c *gin.Context, h *Handlers) {
	boardID, ok := boardOwned(c, h)
	if !ok {
		return
	}
	var dto models.KanbanColumnDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	column := models.KanbanColumn{
		KanbanBoardID: boardID,
		Name:          dto.Name,
		Position:      dto.Position,
	}
	if err := h.DB.WithContext(h.ctx(c)).Create(&column).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, column)
}

func updateColumn(c *gin.Context, h *Handlers) {
	boardID, ok := boardOwned(c, h)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "columnId")
	if !ok {
		return
	}
	var dto models.KanbanColumnDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	column, ok := findChild[models.KanbanColumn](h, c, "id = ? AND kanban_board_id = ?", []any{columnID, boardID}, "kanban column")
	if !ok {
		return
	}
	column.Name = dto.Name
	column.Position = dto.Position
	if err := h.DB.WithContext(h.ctx(c)).Save(column).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, column)
}

func deleteColumn(c *gin.Context, h *Handlers) {
	boardID, ok := boardOwned(c, h)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "columnId")
	if !ok {
		return
	}
	column, ok := findChild[models.KanbanColumn](h, c, "id = ? AND kanban_board_id = ?", []any{columnID, boardID}, "kanban column")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(column).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": columnID})
}

// columnOwned verifies board ownership, then that the column belongs to
// the board. Returns both ids so callers can keep constraining writes to
// the verified board.
func columnOwned(c *gin.Context, h *Handlers) (boardID, columnID uint, ok bool) {
	boardID, ok = boardOwned(c, h)
	if !ok {
		return 0, 0, false
	}
	columnID, ok = pathID(c, "columnId")
	if !ok {
		return 0, 0, false
	}
	if _, ok := findChild[models.KanbanColumn](h, c, "id = ? AND kanban_board_id = ?", []any{columnID, boardID}, "kanban column"); !ok {
		return 0, 0, false
	}
	return boardID, columnID, true
}

func createTask(c *gin.Context, h *Handlers) {
	_, columnID, ok := columnOwned(c, h)
	if !ok {
		return
	}
	var dto models.KanbanTaskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	task := models.KanbanTask{
		KanbanColumnID: columnID,
		Title:          dto.Title,
		Description:    dto.Description,
		Position:       dto.Position,
	}
	if err := h.DB.WithContext(h.ctx(c)).Create(&task).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func updateTask(c *gin.Context, h *Handlers) {
	boardID, columnID, ok := columnOwned(c, h)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	var dto models.KanbanTaskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	task, ok := findChild[models.KanbanTask](h, c, "id = ? AND kanban_column_id = ?", []any{taskID, columnID}, "kanban task")
	if !ok {
		return
	}
	task.Title = dto.Title
	task.Description = dto.Description
	task.Position = dto.Position
	// Moving to another column on the same board.
	if dto.ColumnID != 0 && dto.ColumnID != columnID {
		if _, ok := findChild[models.KanbanColumn](h, c, "id = ? AND kanban_board_id = ?", []any{dto.ColumnID, boardID}, "kanban column"); !ok {
			return
		}
		task.KanbanColumnID = dto.ColumnID
	}
	if err := h.DB.WithContext(h.ctx(c)).Save(task).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func deleteTask(c *gin.Context, h *Handlers) {
	_, columnID, ok := columnOwned(c, h)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	task, ok := findChild[models.KanbanTask](h, c, "id = ? AND kanban_column_id = ?", []any{taskID, columnID}, "kanban task")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(task).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": taskID})
}
