package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"
)

type LogOptions struct {
	VendorID    *uint
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullanmalıyız
	beforeStr := "null" // Default: null JSON
	afterStr := "null"  // Default: null JSON

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		VendorID:    opts.VendorID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}

	return nil
}

// UndoLog - Bir audit log'u undo et
// Not: production_entry ve confirmed sonrası order logları geri alınamaz;
// stok hareketi uygulanmış kayıtların silinmesi envanteri bozar.
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log bulunamadı: %w", err)
	}

	// Zaten undo edilmiş mi?
	if log.IsUndone {
		return fmt.Errorf("bu işlem zaten geri alınmış")
	}

	// Undo işlemini gerçekleştir
	switch log.Action {
	case models.AuditActionCreate:
		// Create ise entity'yi sil
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("entity silinemedi: %w", err)
		}

	case models.AuditActionUpdate:
		// Update ise önceki haline geri döndür
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("entity geri yüklenemedi: %w", err)
		}

	case models.AuditActionDelete:
		// Delete ise entity'yi geri oluştur (create)
		if err := recreateEntity(log.EntityType, log.AfterData); err != nil {
			return fmt.Errorf("entity geri oluşturulamadı: %w", err)
		}

	default:
		return fmt.Errorf("bu işlem türü geri alınamaz")
	}

	// Log'u işaretle
	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("log güncellenemedi: %w", err)
	}

	// Undo işlemi için yeni bir log oluştur
	undoLog := models.AuditLog{
		VendorID:    log.VendorID,
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Geri alındı: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("undo log kaydedilemedi: %w", err)
	}

	return nil
}

// deleteEntity - Entity'yi sil
func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "menu_item":
		return database.DB.Delete(&models.MenuItem{}, "id = ?", entityID).Error
	case "restaurant":
		return database.DB.Delete(&models.Restaurant{}, "id = ?", entityID).Error
	case "order":
		// Sadece booked siparişler silinebilir; confirmed sonrası stok düşülmüştür
		var order models.Order
		if err := database.DB.First(&order, "id = ?", entityID).Error; err != nil {
			return err
		}
		if order.Status != models.OrderStatusBooked {
			return fmt.Errorf("sadece 'booked' durumundaki siparişler geri alınabilir")
		}
		return database.DB.Delete(&models.Order{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

// recreateEntity - Silinen entity'yi geri oluştur
func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "menu_item":
		var item models.MenuItem
		if err := json.Unmarshal([]byte(dataJSON), &item); err != nil {
			return err
		}
		item.ID = 0 // Yeni entity oluştur
		return database.DB.Create(&item).Error

	case "restaurant":
		var restaurant models.Restaurant
		if err := json.Unmarshal([]byte(dataJSON), &restaurant); err != nil {
			return err
		}
		restaurant.ID = 0
		return database.DB.Create(&restaurant).Error

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

// restoreEntity - Entity'yi geri yükle (update)
func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "menu_item":
		var item models.MenuItem
		if err := json.Unmarshal([]byte(dataJSON), &item); err != nil {
			return err
		}
		item.ID = entityID
		return database.DB.Model(&models.MenuItem{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"restaurant_id":  item.RestaurantID,
			"name":           item.Name,
			"description":    item.Description,
			"sale_price":     item.SalePrice,
			"purchase_price": item.PurchasePrice,
			"stock_code":     item.StockCode,
			"image_path":     item.ImagePath,
		}).Error

	case "restaurant":
		var restaurant models.Restaurant
		if err := json.Unmarshal([]byte(dataJSON), &restaurant); err != nil {
			return err
		}
		restaurant.ID = entityID
		return database.DB.Model(&models.Restaurant{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"vendor_id": restaurant.VendorID,
			"name":      restaurant.Name,
			"address":   restaurant.Address,
			"phone":     restaurant.Phone,
		}).Error

	case "vendor":
		var vendor models.Vendor
		if err := json.Unmarshal([]byte(dataJSON), &vendor); err != nil {
			return err
		}
		vendor.ID = entityID
		return database.DB.Model(&models.Vendor{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"name":    vendor.Name,
			"address": vendor.Address,
			"phone":   vendor.Phone,
		}).Error

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}
