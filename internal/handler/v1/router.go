package v1

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/medicore/medicore/internal/domain/codes"
)

// Handlers bundles the v1 handler set for route registration.
type Handlers struct {
	Auth       *AuthHandler
	Dictionary *DictionaryHandler
	Template   *TemplateHandler
	Archive    *ArchiveHandler
	Case       *CaseHandler
	Patient    *PatientHandler
	Data       *DataHandler
	Reporting  *ReportingHandler
}

// Register mounts the v1 routes: auth endpoints on the public group, the
// rest on the guarded one.
func Register(public, api *gin.RouterGroup, h *Handlers) {
	authGroup := public.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}
	api.POST("/auth/password", h.Auth.ChangePassword)

	dict := api.Group("/dictionary")
	{
		dict.POST("", h.Dictionary.Create)
		dict.GET("", h.Dictionary.List)
		dict.POST("/import", h.Dictionary.Import)
		dict.GET("/classes", listWordClasses)
		dict.GET("/:word_code", h.Dictionary.Get)
		dict.PUT("/:word_code", h.Dictionary.Update)
		dict.DELETE("/:word_code", h.Dictionary.Delete)
	}

	categories := api.Group("/template-category")
	{
		categories.POST("", h.Template.CreateCategory)
		categories.GET("", h.Template.ListCategories)
		categories.PUT("/:id", h.Template.UpdateCategory)
		categories.DELETE("/:id", h.Template.DeleteCategory)
	}

	templates := api.Group("/data-template")
	{
		templates.POST("", h.Template.Create)
		templates.GET("", h.Template.List)
		templates.GET("/:template_code", h.Template.Get)
		templates.PUT("/:template_code", h.Template.Update)
		templates.DELETE("/:template_code", h.Template.Delete)
	}

	archives := api.Group("/archive")
	{
		archives.POST("", h.Archive.Create)
		archives.GET("", h.Archive.List)
		archives.GET("/:archive_code", h.Archive.Get)
		archives.PUT("/:archive_code", h.Archive.Update)
		archives.DELETE("/:archive_code", h.Archive.Delete)
	}

	cases := api.Group("/case")
	{
		cases.POST("", h.Case.Create)
		cases.GET("", h.Case.List)
		cases.GET("/:case_code", h.Case.Get)
		cases.PUT("/:case_code", h.Case.Update)
		cases.DELETE("/:case_code", h.Case.Delete)

		cases.GET("/identity/:identity_id", h.Case.ListByIdentity)

		cases.POST("/:case_code/image", h.Case.AddImage)
		cases.GET("/:case_code/image", h.Case.ListImages)

		cases.GET("/:case_code/template-detail", h.Reporting.TemplateDetail)
		cases.GET("/:case_code/visualization-options", h.Reporting.VisualizationOptions)
		cases.GET("/:case_code/visualization-x-options", h.Reporting.XAxisOptions)
	}
	api.DELETE("/image/:id", h.Case.DeleteImage)
	api.POST("/case-template-summary", h.Reporting.TemplateSummary)
	api.POST("/case-visualization-data", h.Reporting.VisualizationData)

	patients := api.Group("/patient")
	{
		patients.GET("", h.Patient.List)
		patients.GET("/:identity_id", h.Patient.Get)
		patients.PUT("/:identity_id", h.Patient.Update)
		patients.DELETE("/:identity_id", h.Patient.Delete)
		patients.GET("/:identity_id/case-data", h.Reporting.PatientCaseData)
	}
	api.GET("/patient-merged-case", h.Reporting.ListMergedPatients)

	data := api.Group("/data")
	{
		data.POST("", h.Data.Create)
		data.GET("", h.Data.List)
		data.GET("/:id", h.Data.Get)
		data.PUT("/:id", h.Data.Update)
		data.DELETE("/:id", h.Data.Delete)
	}
	api.GET("/data-by-key", h.Data.GetByKey)
	api.PUT("/data-by-key", h.Data.UpdateByKey)
	api.DELETE("/data-by-key", h.Data.DeleteByKey)
}

// listWordClasses enumerates the dictionary word classes and their code
// prefixes.
func listWordClasses(c *gin.Context) {
	classes := codes.WordClasses()
	sort.Strings(classes)
	out := make([]gin.H, 0, len(classes))
	for _, class := range classes {
		prefix, _ := codes.WordClassPrefix(class)
		out = append(out, gin.H{"word_class": class, "prefix": prefix})
	}
	c.JSON(http.StatusOK, envelope{Code: http.StatusOK, Msg: "success", Data: out})
}
