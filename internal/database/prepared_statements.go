package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

// Hot-path statements (login, checkout). gocql caches the server-side
// prepares per statement string, so warming them once at boot is enough;
// the getters hand out fresh Query values because a bound Query must not
// be shared across goroutines.
const (
	cqlUserByEmail = "SELECT user_id FROM users_by_email WHERE email = ?"
	cqlUserByID    = `SELECT email, password, name, phone, role, provider, reward_points
		FROM users WHERE user_id = ?`
	cqlProductByID  = "SELECT stock, name, price, is_active FROM products WHERE product_id = ?"
	cqlOfferByCode  = "SELECT offer_id FROM offers_by_code WHERE code = ?"
	warmupPartition = "00000000-0000-0000-0000-000000000000"
)

var preparedOnce sync.Once

// InitPreparedStatements warms the queries hit on every login and checkout
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		usersSession, err := GetUsersSession()
		if err != nil {
			log.Printf("⚠️ Could not warm user statements: %v", err)
			return
		}
		usersSession.Query(cqlUserByEmail, "warmup@localhost").Exec()
		usersSession.Query(cqlUserByID, warmupPartition).Exec()

		catalogSession, err := GetCatalogSession()
		if err != nil {
			log.Printf("⚠️ Could not warm catalog statements: %v", err)
			return
		}
		var pid gocql.UUID
		catalogSession.Query(cqlProductByID, pid).Exec()

		ordersSession, err := GetOrdersSession()
		if err != nil {
			log.Printf("⚠️ Could not warm orders statements: %v", err)
			return
		}
		ordersSession.Query(cqlOfferByCode, "WARMUP").Exec()

		log.Println("✅ Prepared statements warmed")
	})
}

func GetPreparedGetUserByEmail() *gocql.Query {
	session, err := GetUsersSession()
	if err != nil {
		return nil
	}
	return session.Query(cqlUserByEmail)
}

func GetPreparedGetUserByID() *gocql.Query {
	session, err := GetUsersSession()
	if err != nil {
		return nil
	}
	return session.Query(cqlUserByID)
}

func GetPreparedGetProduct() *gocql.Query {
	session, err := GetCatalogSession()
	if err != nil {
		return nil
	}
	return session.Query(cqlProductByID)
}

func GetPreparedGetOfferByCode() *gocql.Query {
	session, err := GetOrdersSession()
	if err != nil {
		return nil
	}
	return session.Query(cqlOfferByCode)
}
