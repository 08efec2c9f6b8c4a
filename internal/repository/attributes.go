package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"greeting-sender/internal/domain"
)

const skAttributes = "ATTRS"

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Client stores durable per-user skill attributes in a DynamoDB table.
type Client struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName, now: time.Now}, nil
}

// userPK returns the partition key for a user.
func userPK(userID string) string {
	return "USER#" + userID
}

func (c *Client) key(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
		"SK": &types.AttributeValueMemberS{Value: skAttributes},
	}
}

// GetAttributes returns the stored attributes for userID. A user without a
// record gets zero attributes; the ledger starts at zero on first access.
func (c *Client) GetAttributes(ctx context.Context, userID string) (domain.Attributes, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Attributes{}, errors.New("repository: GetAttributes: user id is required")
	}
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.tableName),
		Key:            c.key(userID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.Attributes{}, fmt.Errorf("repository: GetAttributes get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.Attributes{UserID: userID}, nil
	}

	attrs, err := itemToAttributes(out.Item)
	if err != nil {
		return domain.Attributes{}, fmt.Errorf("repository: GetAttributes decode: %w", err)
	}
	attrs.UserID = userID
	return attrs, nil
}

// SaveAttributes replaces the stored attributes for attrs.UserID.
func (c *Client) SaveAttributes(ctx context.Context, attrs domain.Attributes) error {
	if strings.TrimSpace(attrs.UserID) == "" {
		return errors.New("repository: SaveAttributes: user id is required")
	}
	attrs.UpdatedAt = c.now().UTC()
	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      attributesItem(attrs),
	})
	if err != nil {
		return fmt.Errorf("repository: SaveAttributes: %w", err)
	}
	return nil
}

func attributesItem(a domain.Attributes) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"PK":             &types.AttributeValueMemberS{Value: userPK(a.UserID)},
		"SK":             &types.AttributeValueMemberS{Value: skAttributes},
		"userId":         &types.AttributeValueMemberS{Value: a.UserID},
		"coinsPurchased": &types.AttributeValueMemberN{Value: strconv.Itoa(a.Ledger.CoinsPurchased)},
		"coinsUsed":      &types.AttributeValueMemberN{Value: strconv.Itoa(a.Ledger.CoinsUsed)},
		"coinsAvailable": &types.AttributeValueMemberN{Value: strconv.Itoa(a.Ledger.CoinsAvailable)},
		"updatedAt":      &types.AttributeValueMemberS{Value: a.UpdatedAt.Format(time.RFC3339)},
	}
	if a.LastIntent != "" {
		item["lastIntent"] = &types.AttributeValueMemberS{Value: a.LastIntent}
	}
	if a.Greeting != nil {
		item["greeting"] = &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"language": &types.AttributeValueMemberS{Value: a.Greeting.Language},
			"greeting": &types.AttributeValueMemberS{Value: a.Greeting.Text},
		}}
	}
	return item
}

// itemToAttributes converts a DynamoDB attribute map to Attributes. Missing
// ledger fields read as zero.
func itemToAttributes(item map[string]types.AttributeValue) (domain.Attributes, error) {
	var (
		a   domain.Attributes
		err error
	)
	if a.Ledger.CoinsPurchased, err = optionalIntAttr(item, "coinsPurchased"); err != nil {
		return domain.Attributes{}, err
	}
	if a.Ledger.CoinsUsed, err = optionalIntAttr(item, "coinsUsed"); err != nil {
		return domain.Attributes{}, err
	}
	if a.Ledger.CoinsAvailable, err = optionalIntAttr(item, "coinsAvailable"); err != nil {
		return domain.Attributes{}, err
	}
	a.LastIntent, _ = strAttr(item, "lastIntent") // allow empty

	if ts, err := strAttr(item, "updatedAt"); err == nil {
		if parsed, perr := time.Parse(time.RFC3339, ts); perr == nil {
			a.UpdatedAt = parsed
		}
	}

	if v, ok := item["greeting"]; ok {
		m, ok := v.(*types.AttributeValueMemberM)
		if !ok {
			return domain.Attributes{}, errors.New("repository: attribute \"greeting\" is not a map")
		}
		lang, err := strAttr(m.Value, "language")
		if err != nil {
			return domain.Attributes{}, err
		}
		text, err := strAttr(m.Value, "greeting")
		if err != nil {
			return domain.Attributes{}, err
		}
		a.Greeting = &domain.Greeting{Language: lang, Text: text}
	}
	return a, nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

func optionalIntAttr(item map[string]types.AttributeValue, key string) (int, error) {
	v, ok := item[key]
	if !ok {
		return 0, nil
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("repository: attribute %q is not a number", key)
	}
	parsed, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return parsed, nil
}
