package catalog

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DownloadItemImage: Verilen URL'den ürün görselini indirir ve yerel klasöre kaydeder.
// imageURL: Görselin tam URL'i
// stockCode: Dosya adı için kullanılır (boşsa rastgele üretilir)
// savePath: Görsellerin kaydedileceği klasör (örn: ./public/item-images)
// Returns: Kaydedilen dosya yolu ve hata
func DownloadItemImage(imageURL string, stockCode string, savePath string) (string, error) {
	if imageURL == "" {
		return "", fmt.Errorf("görsel URL'i boş olamaz")
	}

	// Dosya adı: stok kodu varsa onu kullan, yoksa rastgele üret
	fileName := stockCode
	if fileName == "" {
		fileName = uuid.NewString()
	}

	// Uzantıyı URL'den al, yoksa .jpg varsay
	ext := strings.ToLower(filepath.Ext(imageURL))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		ext = ".jpg"
	}

	filePath := filepath.Join(savePath, fileName+ext)

	// Görsel zaten varsa indirme yapma (dosya kontrolünü en başta yap)
	if _, err := os.Stat(filePath); err == nil {
		return filePath, nil
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequest("GET", imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("HTTP isteği oluşturulamadı: %v", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("görsel indirilemedi: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("görsel indirme hatası: %d", resp.StatusCode)
	}

	// Klasörü oluştur (yoksa)
	if err := os.MkdirAll(savePath, 0755); err != nil {
		return "", fmt.Errorf("klasör oluşturulamadı: %v", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("dosya oluşturulamadı: %v", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return "", fmt.Errorf("görsel yazılamadı: %v", err)
	}

	return filePath, nil
}
