package requests

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/domain/query"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

const maxPageSize = 100

// GetPaginationFromQuery parses limit, offset, order and after from the query
// string. The after cursor is a numeric row id and wins over offset only when
// offset is absent.
func GetPaginationFromQuery(reqCtx *gin.Context) (*query.Pagination, error) {
	ctx := reqCtx.Request.Context()

	limitInt, err := strconv.Atoi(reqCtx.DefaultQuery("limit", "20"))
	if err != nil || limitInt < 1 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "invalid limit", nil, "3c1f7a2e-9d44-4b0a-8e5c-71b2d9f04a36")
	}
	if limitInt > maxPageSize {
		limitInt = maxPageSize
	}

	order := reqCtx.DefaultQuery("order", "desc")
	if order != "asc" && order != "desc" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "order must be asc or desc", nil, "b8e2c4a0-5f17-4d93-a6e8-0c39d1745bfa")
	}

	pagination := &query.Pagination{Limit: &limitInt, Order: order}

	if offsetStr := reqCtx.Query("offset"); offsetStr != "" {
		offsetInt, err := strconv.Atoi(offsetStr)
		if err != nil || offsetInt < 0 {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "invalid offset", nil, "e51a9c3d-2b68-4f07-9a4e-8d60c2f13b75")
		}
		pagination.Offset = &offsetInt
		return pagination, nil
	}

	if afterStr := reqCtx.Query("after"); afterStr != "" {
		parsedID, err := strconv.ParseUint(afterStr, 10, 64)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "invalid after cursor", err, "7d40b8f2-136e-4c5a-b9d7-52a8e0c4f691")
		}
		afterID := uint(parsedID)
		pagination.After = &afterID
	}

	return pagination, nil
}
