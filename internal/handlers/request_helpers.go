package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"status":  "failed",
			"message": "internal server error",
		})
	}
}

func ensureDBConnection(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

// respondOK shapes every successful response: {status: "success", message, ...payload}.
func respondOK(c *gin.Context, code int, message string, payload gin.H) {
	body := gin.H{
		"status":  "success",
		"message": message,
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(code, body)
}

// respondWithError shapes every error response. 4xx responses carry status
// "notsuccess", 5xx carry "failed". Raw errors stay in the log, never in
// the body.
func respondWithError(c *gin.Context, code int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, code, message)

	status := "notsuccess"
	if code >= http.StatusInternalServerError {
		status = "failed"
	}
	c.AbortWithStatusJSON(code, gin.H{
		"status":  status,
		"message": message,
	})
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "min", "max", "gt", "gte", "lt", "lte":
				details = append(details, fmt.Sprintf("%s is out of range", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"status":  "notsuccess",
			"message": "validation failed",
			"details": details,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"status":  "notsuccess",
		"message": "invalid body",
	})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
