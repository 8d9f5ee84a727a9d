package handler

import (
	"encoding/json"
	"errors"
	"io"

	"pacificpro/internal/model"
	"pacificpro/internal/service"
	"pacificpro/pkg/response"

	"github.com/gin-gonic/gin"
)

// BackupHandler melayani /api/backup_restore. Kedua aksi hanya untuk
// admin; restore bersifat destruktif tanpa dry-run.
type BackupHandler struct {
	backupService *service.BackupService
}

func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

func (h *BackupHandler) Handle(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil || user.Role != model.RoleAdmin {
		response.Forbidden(c, "backup dan restore hanya untuk admin")
		return
	}

	action := c.Query("action")
	if action == "" {
		action = c.PostForm("action")
	}

	switch action {
	case "backup":
		h.backup(c)
	case "restore":
		h.restore(c)
	default:
		response.ParamError(c, "aksi tidak dikenal: "+action)
	}
}

func (h *BackupHandler) backup(c *gin.Context) {
	dump, err := h.backupService.Backup(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrTableMissing) {
			response.ServerError(c, err.Error())
			return
		}
		response.ServerError(c, "gagal membuat backup")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="backup.json"`)
	response.Success(c, "backup berhasil dibuat", dump)
}

func (h *BackupHandler) restore(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.ParamError(c, "unggah berkas backup JSON pada field file")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		response.ParamError(c, "gagal membaca berkas backup")
		return
	}

	var dump map[string][]map[string]interface{}
	if err := json.Unmarshal(raw, &dump); err != nil {
		response.ParamError(c, "berkas backup bukan JSON yang valid")
		return
	}

	if err := h.backupService.Restore(c.Request.Context(), dump); err != nil {
		if errors.Is(err, service.ErrUnknownTable) || errors.Is(err, service.ErrEmptyBackupFile) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "restore gagal, tidak ada data yang berubah")
		return
	}

	response.Success(c, "restore berhasil", nil)
}
