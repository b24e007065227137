package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/hsuanlin/tainan-eats-services/api/internal/admin/application"
	mongodoc "github.com/hsuanlin/tainan-eats-services/api/internal/infrastructure/mongo"
	"github.com/hsuanlin/tainan-eats-services/api/internal/interfaces/http/common"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (h *Handler) storeSearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		queryValues := r.URL.Query()
		city := strings.TrimSpace(queryValues.Get("city"))
		district := strings.TrimSpace(queryValues.Get("district"))
		category := common.CanonicalCategory(queryValues.Get("category"))
		keyword := strings.TrimSpace(queryValues.Get("keyword"))
		limit, _ := common.ParsePositiveInt(queryValues.Get("limit"), 20)

		filter := adminapp.StoreFilter{City: city, District: district, Category: category, Keyword: keyword, Limit: limit}
		paging := adminapp.Paging{Limit: limit}

		stores, err := h.storeService.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("admin store search failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "取得店家列表失敗"})
			return
		}

		items := make([]adminStoreResponse, 0, len(stores))
		for _, store := range stores {
			items = append(items, adminStoreDomainToResponse(store))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) storeDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		objectID, err := primitive.ObjectIDFromHex(idParam)
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "店家 ID 格式錯誤"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		store, err := h.storeService.Detail(ctx, objectID.Hex())
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "找不到店家"})
				return
			}
			h.logger.Printf("admin store detail fetch failed id=%s err=%v", idParam, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "取得店家資訊失敗"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, adminStoreDomainToResponse(*store))
	}
}

func (h *Handler) storeCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminStoreRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "請求格式錯誤"})
			return
		}

		cmd, err := h.buildStoreCommand(req)
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		store, err := h.storeService.Create(ctx, cmd)
		if err != nil {
			if errors.Is(err, mongodoc.ErrStoreExists) {
				common.WriteJSON(h.logger, w, http.StatusConflict, map[string]string{"error": err.Error()})
				return
			}
			h.logger.Printf("admin store create failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		h.logger.Printf("admin store created id=%s name=%s by=%s", store.ID, store.Name, auditActor(r))
		common.WriteJSON(h.logger, w, http.StatusCreated, adminStoreCreateResponse{Store: adminStoreDomainToResponse(*store), Created: true})
	}
}

func (h *Handler) storeUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		objectID, err := primitive.ObjectIDFromHex(idParam)
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "店家 ID 格式錯誤"})
			return
		}

		var req adminStoreRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "請求格式錯誤"})
			return
		}

		cmd, err := h.buildStoreCommand(req)
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		store, err := h.storeService.Update(ctx, objectID.Hex(), cmd)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "找不到店家"})
				return
			}
			h.logger.Printf("admin store update failed id=%s err=%v", idParam, err)
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		h.logger.Printf("admin store updated id=%s by=%s", idParam, auditActor(r))
		common.WriteJSON(h.logger, w, http.StatusOK, adminStoreDomainToResponse(*store))
	}
}

func (h *Handler) storeDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		objectID, err := primitive.ObjectIDFromHex(idParam)
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "店家 ID 格式錯誤"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.storeService.Delete(ctx, objectID.Hex()); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "找不到店家"})
				return
			}
			h.logger.Printf("admin store delete failed id=%s err=%v", idParam, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "刪除店家失敗"})
			return
		}

		h.logger.Printf("admin store deleted id=%s by=%s", idParam, auditActor(r))
		w.WriteHeader(http.StatusNoContent)
	}
}
