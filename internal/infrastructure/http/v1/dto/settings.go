package dto

// UpdateImportFolderRequest sets the CSV import folder path.
type UpdateImportFolderRequest struct {
	Path string `json:"path" binding:"required"`
}
