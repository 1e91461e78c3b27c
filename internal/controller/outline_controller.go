package controller

import (
	"errors"

	"course_outline_backend/internal/model"
	"course_outline_backend/internal/service"
	"course_outline_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type OutlineController struct {
	OutlineService *service.OutlineService
}

func NewOutlineController(outlineService *service.OutlineService) *OutlineController {
	return &OutlineController{OutlineService: outlineService}
}

// @Summary Get course outline
// @Description Renders the section/activity navigation tree for the current user
// @Tags outline
// @Produce json
// @Param id path int true "Course ID"
// @Param open query int false "Section to expand"
// @Param highlight query int false "Activity to emphasize"
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /courses/{id}/outline [get]
func (c *OutlineController) GetOutline(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	if courseID == 0 {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	req := model.NavigationRequest{
		OpenSectionID:         util.ParseOptionalUint(ctx.Query("open")),
		HighlightedActivityID: util.ParseOptionalUint(ctx.Query("highlight")),
		UserID:                user.UserID,
	}

	views, err := c.OutlineService.GetOutline(ctx.Request.Context(), courseID, req)
	if errors.Is(err, util.ErrCourseNotFound) {
		util.NotFound(ctx)
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, views)
}
