package repository

import (
	"context"
	"testing"

	"github.com/shopfinity/internal/constants"
	"github.com/shopfinity/internal/models"
)

func TestCartRepositoryInsertMergesSameProduct(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()
	category := createTestCategory(t, db, "electronics")
	product := createTestProduct(t, db, category.ID, "camera-1", "Camera", "120.00", constants.ProductConditionGood)

	first := &models.CartItem{UserID: 9, ProductID: product.ID, Quantity: 1}
	if err := repo.Insert(ctx, first); err != nil {
		t.Fatalf("insert cart item failed: %v", err)
	}
	if first.ID == 0 {
		t.Fatalf("insert should assign line id")
	}

	second := &models.CartItem{UserID: 9, ProductID: product.ID, Quantity: 2}
	if err := repo.Insert(ctx, second); err != nil {
		t.Fatalf("insert duplicate cart item failed: %v", err)
	}
	if second.ID != first.ID || second.Quantity != 3 {
		t.Fatalf("duplicate insert should merge, got id=%d qty=%d", second.ID, second.Quantity)
	}

	items, err := repo.ListByUser(ctx, 9)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("expected one merged line, got %+v", items)
	}
	if items[0].Product == nil || items[0].Product.Slug != "camera-1" {
		t.Fatalf("product snapshot should be preloaded")
	}
}

func TestCartRepositoryUpdateAndDeleteScopedByUser(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()
	category := createTestCategory(t, db, "books")
	product := createTestProduct(t, db, category.ID, "novel-1", "Novel", "8.50", constants.ProductConditionLikeNew)

	item := &models.CartItem{UserID: 1, ProductID: product.ID, Quantity: 1}
	if err := repo.Insert(ctx, item); err != nil {
		t.Fatalf("insert cart item failed: %v", err)
	}

	found, err := repo.UpdateQuantity(ctx, 2, item.ID, 5)
	if err != nil {
		t.Fatalf("update other user failed: %v", err)
	}
	if found {
		t.Fatalf("update must be scoped by user")
	}
	found, err = repo.UpdateQuantity(ctx, 1, item.ID, 5)
	if err != nil || !found {
		t.Fatalf("update own line want found, got found=%v err=%v", found, err)
	}
	stored, err := repo.GetByUserAndProduct(ctx, 1, product.ID)
	if err != nil || stored == nil || stored.Quantity != 5 {
		t.Fatalf("stored quantity want 5, got %+v err=%v", stored, err)
	}

	found, err = repo.DeleteByID(ctx, 1, item.ID)
	if err != nil || !found {
		t.Fatalf("delete want found, got found=%v err=%v", found, err)
	}
	found, err = repo.DeleteByID(ctx, 1, item.ID)
	if err != nil || found {
		t.Fatalf("second delete want not found, got found=%v err=%v", found, err)
	}

	// 物理删除后可重新加入同一商品
	again := &models.CartItem{UserID: 1, ProductID: product.ID, Quantity: 1}
	if err := repo.Insert(ctx, again); err != nil {
		t.Fatalf("re-insert after delete failed: %v", err)
	}
}

func TestCartRepositoryClearByUser(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()
	category := createTestCategory(t, db, "fashion")
	a := createTestProduct(t, db, category.ID, "coat-1", "Coat", "40.00", constants.ProductConditionNew)
	b := createTestProduct(t, db, category.ID, "hat-1", "Hat", "12.00", constants.ProductConditionNew)

	for _, item := range []*models.CartItem{
		{UserID: 1, ProductID: a.ID, Quantity: 1},
		{UserID: 1, ProductID: b.ID, Quantity: 2},
		{UserID: 2, ProductID: a.ID, Quantity: 1},
	} {
		if err := repo.Insert(ctx, item); err != nil {
			t.Fatalf("insert cart item failed: %v", err)
		}
	}

	if err := repo.ClearByUser(ctx, 1); err != nil {
		t.Fatalf("clear cart failed: %v", err)
	}
	if err := repo.ClearByUser(ctx, 1); err != nil {
		t.Fatalf("second clear should not fail: %v", err)
	}
	mine, _ := repo.ListByUser(ctx, 1)
	others, _ := repo.ListByUser(ctx, 2)
	if len(mine) != 0 || len(others) != 1 {
		t.Fatalf("clear should only affect user 1, got mine=%d others=%d", len(mine), len(others))
	}
}
