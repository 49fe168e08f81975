package handler

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"docregistry/internal/model"
	"docregistry/internal/query"
	"docregistry/internal/service"
	"docregistry/internal/storage"
)

// documentListResponse wraps filtered listings.
type documentListResponse struct {
	Data  []model.Document `json:"data"`
	Total int              `json:"total"`
}

// ListDocuments returns the snapshot filtered by keyword, category, tag
// and issue-date range, sorted by upload time descending for display.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		crit := query.Criteria{
			Keyword: c.Query("keyword"),
			Tag:     c.Query("tag"),
		}

		if raw := c.Query("category"); raw != "" {
			cat, err := model.ParseCategory(raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_CATEGORY", "category must be incoming or outgoing")
			}
			crit.Category = cat
		}

		from, to := c.Query("from"), c.Query("to")
		if (from == "") != (to == "") {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE_RANGE", "from and to must be supplied together")
		}
		if from != "" {
			var err error
			crit.From, err = time.Parse(model.IssueDateLayout, from)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DATE_RANGE", "from must be YYYY-MM-DD")
			}
			crit.To, err = time.Parse(model.IssueDateLayout, to)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DATE_RANGE", "to must be YYYY-MM-DD")
			}
		}

		docs, err := svc.Search(c.UserContext(), crit)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		sort.SliceStable(docs, func(i, j int) bool {
			return docs[i].UploadedAt.After(docs[j].UploadedAt)
		})
		return c.JSON(documentListResponse{Data: docs, Total: len(docs)})
	}
}

// UploadDocument registers a new document from multipart/form-data
// (field name: file) plus its metadata form fields.
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		cat, err := model.ParseCategory(c.FormValue("category"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_CATEGORY", "category must be incoming or outgoing")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		in := service.UploadInput{
			OriginalFileName: fh.Filename,
			Title:            c.FormValue("title"),
			Category:         cat,
			DocNumber:        c.FormValue("doc_number"),
			IssueDate:        c.FormValue("issue_date"),
			Counterparty:     c.FormValue("counterparty"),
			Description:      c.FormValue("description"),
			Tags:             splitTags(c.FormValue("tags")),
		}

		doc, err := svc.Upload(c.UserContext(), f, in)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns a single record by ID.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrIDRequired) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(doc)
	}
}

// DownloadDocument streams the attached blob back under its original name.
// A record whose blob was externally removed yields 404 for this read
// only; the rest of the collection stays serviceable.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		content, doc, err := svc.Download(c.UserContext(), c.Params("id"))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrIDRequired):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			case errors.Is(err, storage.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "BLOB_NOT_FOUND", "attached file is missing")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.OriginalFileName))
		return c.Send(content)
	}
}

// DeleteDocument removes a record and its blob. Deleting an already-gone
// id still returns 204.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			if errors.Is(err, service.ErrIDRequired) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// StatsDocuments returns totals per category and the issue-date series.
func StatsDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Stats(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// ExportDocuments downloads the flat CSV report of the collection.
func ExportDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		csvBytes, err := svc.ExportCSV(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		name := fmt.Sprintf("documents_report_%s.csv", time.Now().Format("20060102"))
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
		c.Type("csv")
		return c.Send(csvBytes)
	}
}

// HealthCheck verifies the blob storage area is usable.
func HealthCheck(st storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := st.EnsureReady(c.UserContext()); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// splitTags turns the comma-separated form value into raw tag candidates.
// Trimming, empty-dropping and deduplication happen in the service.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
