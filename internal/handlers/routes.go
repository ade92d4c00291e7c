package handlers

import (
	"github.com/evohome/evohome-cms/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	documentBodyLimit = 1 * 1024 * 1024
	leadBodyLimit     = 100 * 1024
	uploadBodyLimit   = 11 * 1024 * 1024
)

// Routes groups the handlers and per-route middleware mounted under /api/v1
type Routes struct {
	Content     *ContentHandler
	Collections *CollectionHandler
	Pages       *PageHandler
	Leads       *LeadHandler
	Admin       *AdminHandler
	Upload      *UploadHandler

	// AdminAuth guards every write and admin read
	AdminAuth gin.HandlerFunc
	// LeadLimiter and LoginLimiter throttle the public form and the login endpoint
	LeadLimiter  gin.HandlerFunc
	LoginLimiter gin.HandlerFunc
}

// Register mounts the CMS API on group. Reads of published content are public;
// edits require admin credentials.
func (r Routes) Register(group *gin.RouterGroup) {
	// Public reads
	group.GET("/content", r.Content.ListSlots)
	group.GET("/content/:slot", r.Content.GetSlot)
	group.GET("/collections/:collection", r.Collections.List)
	group.GET("/collections/:collection/:id", r.Collections.Get)
	group.GET("/pages", r.Pages.ListPages)
	group.GET("/pages/:slug", r.Pages.GetPage)
	group.GET("/block-types", r.Pages.BlockTypes)

	// Public lead form
	group.POST("/leads", r.LeadLimiter, middleware.BodySizeLimitMiddleware(leadBodyLimit), r.Leads.SubmitLead)

	// Admin authentication
	group.POST("/admin/login", r.LoginLimiter, middleware.BodySizeLimitMiddleware(leadBodyLimit), r.Admin.Login)
	group.GET("/admin/verify", r.Admin.Verify)

	admin := group.Group("")
	admin.Use(r.AdminAuth, middleware.NoStoreMiddleware())

	admin.GET("/admin/session", r.Admin.Session)
	admin.POST("/admin/seed", r.Admin.Seed)
	admin.POST("/admin/upload", middleware.BodySizeLimitMiddleware(uploadBodyLimit), r.Upload.UploadImage)
	admin.GET("/leads", r.Leads.ListLeads)

	edits := admin.Group("")
	edits.Use(middleware.BodySizeLimitMiddleware(documentBodyLimit))

	edits.PUT("/content/:slot", r.Content.PutSlot)
	edits.PATCH("/content/:slot", r.Content.SetSlotField)
	edits.POST("/content/:slot/merge", r.Content.MergeSlot)

	edits.POST("/collections/:collection", r.Collections.Upsert)
	edits.PUT("/collections/:collection/:id", r.Collections.Replace)
	edits.DELETE("/collections/:collection/:id", r.Collections.Delete)
	edits.POST("/collections/:collection/reorder", r.Collections.Reorder)

	edits.PUT("/pages/:slug", r.Pages.SavePage)
	edits.DELETE("/pages/:slug", r.Pages.DeletePage)
	edits.POST("/pages/:slug/blocks", r.Pages.InsertBlock)
	edits.DELETE("/pages/:slug/blocks/:index", r.Pages.RemoveBlock)
	edits.POST("/pages/:slug/blocks/reorder", r.Pages.ReorderBlocks)
}
