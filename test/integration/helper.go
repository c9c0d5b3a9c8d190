package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明：测试辅助工具
// 这个文件包含集成测试的通用辅助函数，遵循DRY原则（Don't Repeat Yourself）
// 将重复的代码（HTTP请求、JSON解析）封装成可复用的函数
//
// 运行前提：
// 1. 启动MySQL、Redis与API服务（go run ./cmd/api）
// 2. 数据库中存在一个admin用户，凭证通过环境变量传入：
//    WHOLESALE_INTEGRATION=1 \
//    WHOLESALE_TEST_ADMIN_USER=admin WHOLESALE_TEST_ADMIN_PASS=admin1234 \
//    go test -v ./test/integration/...
// 未设置WHOLESALE_INTEGRATION时全部跳过，保证单测环境`go test ./...`全绿

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// RequireIntegrationEnv 未开启集成测试环境时跳过
func RequireIntegrationEnv(t *testing.T) {
	t.Helper()
	if os.Getenv("WHOLESALE_INTEGRATION") == "" {
		t.Skip("未设置WHOLESALE_INTEGRATION，跳过集成测试")
	}
}

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserData 用户响应数据
type UserData struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ProductData 商品响应数据
type ProductData struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	PriceYuan string `json:"price_yuan"`
	Stock     int    `json:"stock"`
}

// OrderData 下单响应数据
type OrderData struct {
	OrderID   uint   `json:"order_id"`
	Total     int64  `json:"total"`
	TotalYuan string `json:"total_yuan"`
	Status    string `json:"status"`
}

// OrderViewData 订单查询响应数据
type OrderViewData struct {
	OrderID uint   `json:"order_id"`
	UserID  uint   `json:"user_id"`
	Status  string `json:"status"`
	Total   int64  `json:"total"`
	Lines   []struct {
		ProductID uint  `json:"product_id"`
		Quantity  int   `json:"quantity"`
		UnitPrice int64 `json:"unit_price"`
		LineTotal int64 `json:"line_total"`
	} `json:"lines"`
}

// HistoryRow 订单历史报表行
type HistoryRow struct {
	OrderID         uint   `json:"order_id"`
	Status          string `json:"status"`
	OrderTotal      int64  `json:"order_total"`
	CumulativeTotal int64  `json:"cumulative_total"`
}

// DetailRow 订单明细报表行
type DetailRow struct {
	OrderID     uint   `json:"order_id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	LineTotal   int64  `json:"line_total"`
}

// DoJSON 发送带JSON体的请求并解析响应
func DoJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return DoJSON(t, "POST", url, data, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	return DoJSON(t, "GET", url, nil, token)
}

// PatchJSON 发送PATCH请求并解析JSON响应
func PatchJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return DoJSON(t, "PATCH", url, data, token)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, token string) *Response {
	return DoJSON(t, "DELETE", url, nil, token)
}

// itoa uint转字符串（拼接URL路径用）
func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}

// GenerateTestUsername 生成唯一的测试用户名
// 使用纳秒时间戳确保唯一性，避免测试重复运行时用户名冲突
func GenerateTestUsername(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano()%1000000000)
}

// Login 登录并返回Token
func Login(t *testing.T, username, password string) string {
	t.Helper()
	resp := PostJSON(t, BaseURL+"/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, 0, resp.Code, "登录失败: %s", resp.Message)

	var data LoginData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析登录响应失败")
	return data.AccessToken
}

// AdminToken 用环境变量中的管理员凭证登录
func AdminToken(t *testing.T) string {
	t.Helper()
	username := os.Getenv("WHOLESALE_TEST_ADMIN_USER")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("WHOLESALE_TEST_ADMIN_PASS")
	if password == "" {
		password = "admin1234"
	}
	return Login(t, username, password)
}

// CreateTestUser 管理员创建测试用户并返回其Token
// 封装了创建+登录的完整流程，测试代码只关心业务场景
func CreateTestUser(t *testing.T, adminToken, prefix, role string) (username string, token string) {
	t.Helper()
	username = GenerateTestUsername(prefix)
	resp := PostJSON(t, BaseURL+"/users", map[string]string{
		"username": username,
		"password": "pass1234",
		"role":     role,
	}, adminToken)
	require.Equal(t, 0, resp.Code, "创建用户失败: %s", resp.Message)

	return username, Login(t, username, "pass1234")
}

// CreateTestProduct 管理员创建测试商品并返回商品ID
func CreateTestProduct(t *testing.T, adminToken, name string, price int64, stock int) uint {
	t.Helper()
	resp := PostJSON(t, BaseURL+"/products", map[string]interface{}{
		"name":  name,
		"price": price,
		"stock": stock,
	}, adminToken)
	require.Equal(t, 0, resp.Code, "创建商品失败: %s", resp.Message)

	var data ProductData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析商品响应失败")
	return data.ID
}

// CreateTestOrder 下单并返回订单数据
func CreateTestOrder(t *testing.T, token string, items []map[string]interface{}) OrderData {
	t.Helper()
	resp := PostJSON(t, BaseURL+"/orders", map[string]interface{}{
		"items": items,
	}, token)
	require.Equal(t, 0, resp.Code, "下单失败: %s", resp.Message)

	var data OrderData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析订单响应失败")
	return data
}

// GetProductStock 查询商品当前库存（走公开的商品列表接口）
func GetProductStock(t *testing.T, productID uint) int {
	t.Helper()
	resp := GetJSON(t, BaseURL+"/products", "")
	require.Equal(t, 0, resp.Code, "查询商品列表失败: %s", resp.Message)

	var products []ProductData
	require.NoError(t, json.Unmarshal(resp.Data, &products), "解析商品列表失败")
	for _, p := range products {
		if p.ID == productID {
			return p.Stock
		}
	}
	t.Fatalf("商品%d不存在", productID)
	return 0
}
