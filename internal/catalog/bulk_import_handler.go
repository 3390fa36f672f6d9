package catalog

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"dagitim-backend/internal/config"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// normalizeTurkish: Türkçe karakterleri ASCII karşılıklarına çevirir
// Örn: "IZGARA KÖFTE MENÜSÜ" -> "izgara kofte menusu"
func normalizeTurkish(s string) string {
	replacements := map[rune]string{
		'ç': "c", 'Ç': "C",
		'ğ': "g", 'Ğ': "G",
		'ı': "i", 'İ': "I",
		'ö': "o", 'Ö': "O",
		'ş': "s", 'Ş': "S",
		'ü': "u", 'Ü': "U",
	}

	var result strings.Builder
	for _, r := range s {
		if replacement, ok := replacements[r]; ok {
			result.WriteString(replacement)
		} else {
			result.WriteRune(r)
		}
	}
	return strings.ToLower(result.String())
}

// normalizeItemName: Ürün adını eşleştirme için normalleştirir - porsiyon/miktar
// eklerini kaldırır.
// Örn: "İskender Kebap 1.5 Porsiyon" -> "iskender kebap"
func normalizeItemName(s string) string {
	normalized := normalizeTurkish(s)

	// Sondaki porsiyon/adet bilgilerini kaldır
	quantityPattern := `\s+[\d.,]+?\s*(?:porsiyon|adet|kisilik|li|lu)\s*$`
	re := regexp.MustCompile(quantityPattern)
	normalized = re.ReplaceAllString(normalized, "")

	return strings.TrimSpace(normalized)
}

// parsePrice: Excel hücresindeki fiyatı parse eder ("12,50" ve "12.50" kabul edilir)
func parsePrice(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}
	cell = strings.ReplaceAll(cell, ",", ".")
	return strconv.ParseFloat(cell, 64)
}

// POST /api/restaurants/:id/menu-items/import
// XLSX dosyasından menü ürünlerini toplu içe aktarır.
// Beklenen kolonlar: ÜRÜN ADI | AÇIKLAMA | SATIŞ FİYATI | ALIŞ FİYATI | STOK KODU | GÖRSEL URL
// Mevcut ürünler (normalize edilmiş isim veya stok kodu eşleşmesi) güncellenir,
// diğerleri yeni kayıt olarak oluşturulur.
func ImportMenuItemsHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurant, err := findRestaurantScoped(c, c.Params("id"))
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası okunamadı: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında sheet bulunamadı")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet okunamadı: "+err.Error())
		}

		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası boş")
		}

		// İlk satır başlık satırı mı?
		skipFirstRow := false
		if len(rows[0]) > 0 {
			firstCell := strings.ToUpper(strings.TrimSpace(rows[0][0]))
			if strings.Contains(firstCell, "ÜRÜN") || strings.Contains(firstCell, "PRODUCT") ||
				firstCell == "ÜRÜN ADI" {
				skipFirstRow = true
			}
		}

		// Mevcut ürünleri bir kez çek, normalize edilmiş haliyle eşleştir
		var existing []models.MenuItem
		if err := database.DB.Where("restaurant_id = ?", restaurant.ID).Find(&existing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mevcut ürünler okunamadı")
		}

		byName := make(map[string]*models.MenuItem, len(existing))
		byStockCode := make(map[string]*models.MenuItem, len(existing))
		for i := range existing {
			byName[normalizeItemName(existing[i].Name)] = &existing[i]
			if existing[i].StockCode != "" {
				byStockCode[normalizeTurkish(existing[i].StockCode)] = &existing[i]
			}
		}

		cell := func(row []string, idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		createdCount := 0
		updatedCount := 0
		failedRows := make([]string, 0)

		startIndex := 0
		if skipFirstRow {
			startIndex = 1
			log.Printf("İlk satır başlık satırı olarak algılandı, atlanıyor")
		}

		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			if len(row) == 0 {
				continue
			}

			name := cell(row, 0)
			if name == "" {
				continue
			}

			salePrice, err1 := parsePrice(cell(row, 2))
			purchasePrice, err2 := parsePrice(cell(row, 3))
			if err1 != nil || err2 != nil || salePrice < 0 || purchasePrice < 0 {
				failedRows = append(failedRows, fmt.Sprintf("satır %d: geçersiz fiyat", i+1))
				continue
			}

			description := cell(row, 1)
			stockCode := cell(row, 4)
			imageURL := cell(row, 5)

			// Görsel URL'i varsa indir; hata içe aktarmayı durdurmaz
			imagePath := ""
			if imageURL != "" {
				p, err := DownloadItemImage(imageURL, stockCode, cfg.ItemImagePath)
				if err != nil {
					log.Printf("Görsel indirilemedi (satır %d): %v", i+1, err)
				} else {
					imagePath = p
				}
			}

			// Eşleştirme: önce stok kodu, sonra normalize edilmiş isim
			var match *models.MenuItem
			if stockCode != "" {
				match = byStockCode[normalizeTurkish(stockCode)]
			}
			if match == nil {
				match = byName[normalizeItemName(name)]
			}

			if match != nil {
				match.Name = name
				if description != "" {
					match.Description = description
				}
				match.SalePrice = salePrice
				match.PurchasePrice = purchasePrice
				if stockCode != "" {
					match.StockCode = stockCode
				}
				if imagePath != "" {
					match.ImagePath = imagePath
				}

				if err := database.DB.Save(match).Error; err != nil {
					failedRows = append(failedRows, fmt.Sprintf("satır %d: %s güncellenemedi", i+1, name))
					continue
				}
				updatedCount++
				continue
			}

			item := models.MenuItem{
				RestaurantID:  restaurant.ID,
				Name:          name,
				Description:   description,
				SalePrice:     salePrice,
				PurchasePrice: purchasePrice,
				StockCode:     stockCode,
				ImagePath:     imagePath,
			}
			if err := database.DB.Create(&item).Error; err != nil {
				failedRows = append(failedRows, fmt.Sprintf("satır %d: %s oluşturulamadı", i+1, name))
				continue
			}

			byName[normalizeItemName(item.Name)] = &item
			if item.StockCode != "" {
				byStockCode[normalizeTurkish(item.StockCode)] = &item
			}
			createdCount++
		}

		return c.JSON(fiber.Map{
			"success":       true,
			"created_count": createdCount,
			"updated_count": updatedCount,
			"failed_rows":   failedRows,
			"message":       fmt.Sprintf("%d ürün oluşturuldu, %d ürün güncellendi. %d satır işlenemedi.", createdCount, updatedCount, len(failedRows)),
		})
	}
}
