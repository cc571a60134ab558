package blog

import (
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
	"krc_coffee_backend/internal/utils"
)

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL slug
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugCleaner.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// GetBlogs lists published posts. Admins see drafts too with ?all=true.
func GetBlogs(c *gin.Context) {
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	includeDrafts := c.Query("all") == "true" && c.GetString("role") == models.RoleAdmin

	iter := session.Query(`
		SELECT blog_id, slug, title, content, author, image_url, is_published, created_at, updated_at
		FROM blogs`).Iter()

	blogs := []models.Blog{}
	var b models.Blog
	for iter.Scan(&b.ID, &b.Slug, &b.Title, &b.Content, &b.Author, &b.ImageURL,
		&b.IsPublished, &b.CreatedAt, &b.UpdatedAt) {
		if !b.IsPublished && !includeDrafts {
			continue
		}
		blogs = append(blogs, b)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Blog list error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(blogs), "data": blogs})
}

// GetBlog fetches one post by ID or slug
func GetBlog(c *gin.Context) {
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	idOrSlug := c.Param("idOrSlug")

	blogID, err := gocql.ParseUUID(idOrSlug)
	if err != nil {
		// Not a UUID, resolve through the slug lookup
		if err := session.Query(`SELECT blog_id FROM blogs_by_slug WHERE slug = ?`, idOrSlug).
			Scan(&blogID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Blog not found"})
			return
		}
	}

	var b models.Blog
	if err := session.Query(`
		SELECT blog_id, slug, title, content, author, image_url, is_published, created_at, updated_at
		FROM blogs WHERE blog_id = ?`, blogID).Scan(
		&b.ID, &b.Slug, &b.Title, &b.Content, &b.Author, &b.ImageURL,
		&b.IsPublished, &b.CreatedAt, &b.UpdatedAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Blog not found"})
		return
	}

	if !b.IsPublished && c.GetString("role") != models.RoleAdmin {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Blog not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": b})
}

// CreateBlog adds a post, slug derived from the title
func CreateBlog(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Content     string `json:"content" binding:"required"`
		Author      string `json:"author"`
		ImageURL    string `json:"image_url"`
		IsPublished bool   `json:"is_published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload: " + err.Error()})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	slug := Slugify(req.Title)
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title yields an empty slug"})
		return
	}

	var existing gocql.UUID
	if err := session.Query(`SELECT blog_id FROM blogs_by_slug WHERE slug = ?`, slug).
		Scan(&existing); err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A blog with this slug already exists"})
		return
	}

	now := time.Now()
	b := models.Blog{
		ID:          gocql.TimeUUID(),
		Slug:        slug,
		Title:       req.Title,
		Content:     req.Content,
		Author:      req.Author,
		ImageURL:    req.ImageURL,
		IsPublished: req.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := session.Query(`
		INSERT INTO blogs (blog_id, slug, title, content, author, image_url, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Slug, b.Title, b.Content, b.Author, b.ImageURL, b.IsPublished, b.CreatedAt, b.UpdatedAt,
	).Exec(); err != nil {
		log.Printf("❌ Blog insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Blog creation failed"})
		return
	}

	if err := session.Query(`INSERT INTO blogs_by_slug (slug, blog_id) VALUES (?, ?)`,
		b.Slug, b.ID).Exec(); err != nil {
		log.Printf("⚠️ Blog slug lookup insert error: %v", err)
	}

	utils.LogAction(c, "create", "blog", b.ID.String(), nil, map[string]interface{}{"title": b.Title})
	log.Printf("📝 Blog created: %s (%s)", b.Title, b.Slug)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": b})
}

// canClaimSlug decides whether a post may take a slug given the current
// lookup row. No row, or a row already pointing at the post itself, is fine.
func canClaimSlug(owner gocql.UUID, found bool, self gocql.UUID) bool {
	return !found || owner == self
}

// UpdateBlog edits a post. Changing the title re-derives the slug and keeps
// the lookup table unique, a collision with another post is a 409.
func UpdateBlog(c *gin.Context) {
	blogID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid blog ID"})
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Content     *string `json:"content"`
		Author      *string `json:"author"`
		ImageURL    *string `json:"image_url"`
		IsPublished *bool   `json:"is_published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var b models.Blog
	if err := session.Query(`
		SELECT blog_id, slug, title, content, author, image_url, is_published, created_at, updated_at
		FROM blogs WHERE blog_id = ?`, blogID).Scan(
		&b.ID, &b.Slug, &b.Title, &b.Content, &b.Author, &b.ImageURL,
		&b.IsPublished, &b.CreatedAt, &b.UpdatedAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Blog not found"})
		return
	}

	oldSlug := b.Slug
	if req.Title != nil {
		b.Title = *req.Title
		b.Slug = Slugify(*req.Title)
	}

	if b.Slug != oldSlug {
		if b.Slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title yields an empty slug"})
			return
		}
		var owner gocql.UUID
		err := session.Query(`SELECT blog_id FROM blogs_by_slug WHERE slug = ?`, b.Slug).Scan(&owner)
		if !canClaimSlug(owner, err == nil, blogID) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A blog with this slug already exists"})
			return
		}
	}
	if req.Content != nil {
		b.Content = *req.Content
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.ImageURL != nil {
		b.ImageURL = *req.ImageURL
	}
	if req.IsPublished != nil {
		b.IsPublished = *req.IsPublished
	}
	b.UpdatedAt = time.Now()

	if err := session.Query(`
		UPDATE blogs SET slug = ?, title = ?, content = ?, author = ?, image_url = ?, is_published = ?, updated_at = ?
		WHERE blog_id = ?`,
		b.Slug, b.Title, b.Content, b.Author, b.ImageURL, b.IsPublished, b.UpdatedAt, blogID,
	).Exec(); err != nil {
		log.Printf("❌ Blog update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Blog update failed"})
		return
	}

	if b.Slug != oldSlug {
		session.Query(`DELETE FROM blogs_by_slug WHERE slug = ?`, oldSlug).Exec()
		if err := session.Query(`INSERT INTO blogs_by_slug (slug, blog_id) VALUES (?, ?)`,
			b.Slug, blogID).Exec(); err != nil {
			log.Printf("⚠️ Blog slug lookup update error: %v", err)
		}
	}

	utils.LogAction(c, "update", "blog", blogID.String(), nil, map[string]interface{}{"title": b.Title})
	c.JSON(http.StatusOK, gin.H{"success": true, "data": b})
}

// DeleteBlog removes a post and its slug lookup
func DeleteBlog(c *gin.Context) {
	blogID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid blog ID"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var slug string
	if err := session.Query(`SELECT slug FROM blogs WHERE blog_id = ?`, blogID).Scan(&slug); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Blog not found"})
		return
	}

	if err := session.Query(`DELETE FROM blogs WHERE blog_id = ?`, blogID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Blog deletion failed"})
		return
	}
	session.Query(`DELETE FROM blogs_by_slug WHERE slug = ?`, slug).Exec()

	utils.LogAction(c, "delete", "blog", blogID.String(), map[string]interface{}{"slug": slug}, nil)
	log.Printf("🗑️ Blog deleted: %s", slug)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Blog deleted"})
}
