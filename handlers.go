package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"platereader/pkg/logging"
	"platereader/pkg/plate"
)

const (
	maxUploadSize   = 5 * 1024 * 1024
	maxUploadPixels = 4096 * 4096
)

func setupRoutes(r *gin.Engine) {
	r.GET("/healthz", healthHandler)
	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.POST("/recognize", recognizeHandler)
	authGroup.GET("/results", listResultsHandler)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": st != nil})
}

func resultJSON(res plate.Result) gin.H {
	out := gin.H{"filename": res.Filename, "text": res.Text, "accepted": res.Accepted}
	if res.HasConfidence {
		out["confidence"] = res.Confidence
	}
	return out
}

// recognizeHandler runs one uploaded plate crop through the pipeline.
func recognizeHandler(c *gin.Context) {
	p, err := plate.ParseProfile(c.PostForm("profile"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reader, ok := readers[p]
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "profile not loaded"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	if !plate.IsImageFile(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type (png, jpg, jpeg)"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read upload failed"})
		return
	}
	defer f.Close()

	img, err := plate.DecodeImage(f, file.Filename, maxUploadPixels)
	if errors.Is(err, plate.ErrImageTooLarge) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image too large (max 4096x4096 pixels)"})
		return
	}
	if err != nil {
		logging.Warnf("upload %s: %v", file.Filename, err)
	}
	// a nil image yields the invalid-image result
	res := reader.ReadImage(c.Request.Context(), file.Filename, img)
	if st != nil {
		if err := st.SaveResult(c.Request.Context(), apiRunID, p, res); err != nil {
			logging.Warnf("store %s: %v", res.Filename, err)
		}
	}
	c.JSON(http.StatusOK, resultJSON(res))
}

// listResultsHandler lists stored records, optionally for one run.
func listResultsHandler(c *gin.Context) {
	if st == nil {
		c.JSON(http.StatusOK, gin.H{"results": []gin.H{}})
		return
	}
	limit := 100
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	recs, err := st.List(c.Request.Context(), c.Query("run"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list results"})
		return
	}
	out := make([]gin.H, 0, len(recs))
	for _, r := range recs {
		item := gin.H{
			"id":         r.ID,
			"run_id":     r.RunID,
			"profile":    r.Profile,
			"filename":   r.FileName,
			"text":       r.Text,
			"accepted":   r.Accepted,
			"created_at": r.CreatedAt.Format(time.RFC3339),
		}
		if r.Confidence != nil {
			item["confidence"] = *r.Confidence
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, gin.H{"results": out})
}
