package chat

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, msg Message) error {
	const q = `
	INSERT INTO chat_messages
		(message_id, product_id, customer_id, shop_owner_id, sender, message, sent_at)
	VALUES
		(:message_id, :product_id, :customer_id, :shop_owner_id, :sender, :message, :sent_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, msg); err != nil {
		return fmt.Errorf("inserting chat message: %w", err)
	}

	return nil
}

func FetchByProduct(ctx context.Context, db sqlx.ExtContext, productID string) ([]Message, error) {
	const q = `
	SELECT * FROM chat_messages
	WHERE product_id = $1
	ORDER BY sent_at, message_id`

	messages := []Message{}
	if err := sqlx.SelectContext(ctx, db, &messages, q, productID); err != nil {
		return nil, fmt.Errorf("selecting messages of product[%s]: %w", productID, err)
	}

	return messages, nil
}

// FetchByOwner is the shop owner's inbox, newest first.
func FetchByOwner(ctx context.Context, db sqlx.ExtContext, ownerID string) ([]Message, error) {
	const q = `
	SELECT * FROM chat_messages
	WHERE shop_owner_id = $1
	ORDER BY sent_at DESC, message_id`

	messages := []Message{}
	if err := sqlx.SelectContext(ctx, db, &messages, q, ownerID); err != nil {
		return nil, fmt.Errorf("selecting messages of owner[%s]: %w", ownerID, err)
	}

	return messages, nil
}
