package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tripnest/server/internal/helpers"
	"github.com/tripnest/server/internal/models"
	"github.com/tripnest/server/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func CreateListing(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var listing models.Listing
		if err := c.ShouldBindJSON(&listing); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		created, err := ls.CreateListing(c.Request.Context(), &listing)
		if err != nil {
			c.JSON(statusForError(err), helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, helpers.SuccessResponse(created, "Listing created successfully"))
	}
}

func ListListings(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limitInt, offsetInt, ok := paginationParams(c)
		if !ok {
			return
		}

		listings, total, err := ls.ListListings(c.Request.Context(), offsetInt, limitInt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}

		page := (offsetInt / limitInt) + 1
		c.JSON(http.StatusOK, helpers.PaginatedResponse(listings, page, limitInt, total))
	}
}

func GetListingByID(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "listing")
		if !ok {
			return
		}

		listing, err := ls.GetListingByID(c.Request.Context(), id)
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, helpers.ErrorResponse("listing not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(listing, ""))
	}
}

func UpdateListing(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "listing")
		if !ok {
			return
		}

		var updates map[string]interface{}
		if err := c.ShouldBindJSON(&updates); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		updated, err := ls.UpdateListing(c.Request.Context(), id, updates)
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, helpers.ErrorResponse("listing not found"))
			return
		}
		if err != nil {
			c.JSON(statusForError(err), helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(updated, "Listing updated successfully"))
	}
}

func DeleteListing(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "listing")
		if !ok {
			return
		}

		if err := ls.DeleteListing(c.Request.Context(), id); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, helpers.ErrorResponse("listing not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "listing deleted successfully"))
	}
}

func DeleteAllListings(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleted, err := ls.DeleteAllListings(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{"deleted": deleted}, "listings deleted successfully"))
	}
}

func paginationParams(c *gin.Context) (limit, offset int, ok bool) {
	limitStr := c.DefaultQuery("limit", "10")
	offsetStr := c.DefaultQuery("offset", "0")

	limitInt, err := strconv.Atoi(limitStr)
	if err != nil || limitInt <= 0 {
		c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid limit parameter"))
		return 0, 0, false
	}
	offsetInt, err := strconv.Atoi(offsetStr)
	if err != nil || offsetInt < 0 {
		c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid offset parameter"))
		return 0, 0, false
	}
	return limitInt, offsetInt, true
}

func objectIDParam(c *gin.Context, what string) (primitive.ObjectID, bool) {
	raw := helpers.StringTrim(c.Param("id"))
	if raw == "" {
		c.JSON(http.StatusBadRequest, helpers.ErrorResponse(what+" ID is required"))
		return primitive.NilObjectID, false
	}

	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid "+what+" ID format"))
		return primitive.NilObjectID, false
	}
	return id, true
}
