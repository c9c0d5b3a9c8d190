package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 用户模块集成测试
//
// 集成测试 vs 单元测试：
// - 单元测试：用内存仓储替换数据库，测试单个用例的逻辑
// - 集成测试：使用真实的MySQL和Redis，测试完整的API流程
//   （Handler → UseCase → Service → Repository → Database）

// TestUserManagement 测试用户管理（管理端）
func TestUserManagement(t *testing.T) {
	RequireIntegrationEnv(t)
	adminToken := AdminToken(t)

	t.Run("创建用户", func(t *testing.T) {
		username := GenerateTestUsername("customer")
		resp := PostJSON(t, BaseURL+"/users", map[string]string{
			"username": username,
			"password": "pass1234",
			"role":     "customer",
		}, adminToken)
		require.Equal(t, 0, resp.Code, "创建用户应该成功: %s", resp.Message)

		var data UserData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotZero(t, data.ID)
		assert.Equal(t, username, data.Username)
		assert.Equal(t, "customer", data.Role)
	})

	t.Run("重复用户名应失败", func(t *testing.T) {
		username := GenerateTestUsername("dup")
		req := map[string]string{
			"username": username,
			"password": "pass1234",
			"role":     "customer",
		}
		resp1 := PostJSON(t, BaseURL+"/users", req, adminToken)
		require.Equal(t, 0, resp1.Code)

		resp2 := PostJSON(t, BaseURL+"/users", req, adminToken)
		assert.Equal(t, 40902, resp2.Code, "重复用户名应返回40902")
	})

	t.Run("弱密码应失败", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users", map[string]string{
			"username": GenerateTestUsername("weak"),
			"password": "12345678", // 纯数字
			"role":     "customer",
		}, adminToken)
		assert.NotEqual(t, 0, resp.Code, "纯数字密码应被拒绝")
	})

	t.Run("非法角色应失败", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users", map[string]string{
			"username": GenerateTestUsername("badrole"),
			"password": "pass1234",
			"role":     "boss",
		}, adminToken)
		assert.NotEqual(t, 0, resp.Code, "未知角色应被拒绝")
	})

	t.Run("非管理员不能创建用户", func(t *testing.T) {
		_, customerToken := CreateTestUser(t, adminToken, "nopriv", "customer")
		resp := PostJSON(t, BaseURL+"/users", map[string]string{
			"username": GenerateTestUsername("x"),
			"password": "pass1234",
			"role":     "customer",
		}, customerToken)
		assert.Equal(t, 40104, resp.Code, "客户应无用户管理权限")
	})
}

// TestLoginLogout 测试登录登出流程
func TestLoginLogout(t *testing.T) {
	RequireIntegrationEnv(t)
	adminToken := AdminToken(t)
	username, _ := CreateTestUser(t, adminToken, "login", "customer")

	t.Run("正常登录", func(t *testing.T) {
		token := Login(t, username, "pass1234")
		assert.NotEmpty(t, token)
	})

	t.Run("密码错误", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/auth/login", map[string]string{
			"username": username,
			"password": "wrong123",
		}, "")
		assert.Equal(t, 40103, resp.Code)
	})

	t.Run("用户不存在与密码错误返回同一错误码", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/auth/login", map[string]string{
			"username": "no_such_user_xyz",
			"password": "pass1234",
		}, "")
		assert.Equal(t, 40103, resp.Code, "防止用户名枚举")
	})

	t.Run("登出后Token失效", func(t *testing.T) {
		token := Login(t, username, "pass1234")

		resp := PostJSON(t, BaseURL+"/auth/logout", nil, token)
		require.Equal(t, 0, resp.Code, "登出失败: %s", resp.Message)

		// 已登出的Token再访问受保护接口应被拒
		resp = GetJSON(t, BaseURL+"/orders/1", token)
		assert.NotEqual(t, 0, resp.Code, "登出后Token应失效")
	})

	t.Run("无Token访问受保护接口", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/orders", map[string]interface{}{
			"items": []map[string]interface{}{{"product_id": 1, "quantity": 1}},
		}, "")
		assert.Equal(t, 40100, resp.Code)
	})
}

// TestResetPassword 测试管理员重置密码
func TestResetPassword(t *testing.T) {
	RequireIntegrationEnv(t)
	adminToken := AdminToken(t)

	username := GenerateTestUsername("reset")
	resp := PostJSON(t, BaseURL+"/users", map[string]string{
		"username": username,
		"password": "pass1234",
		"role":     "customer",
	}, adminToken)
	require.Equal(t, 0, resp.Code)

	var data UserData
	require.NoError(t, json.Unmarshal(resp.Data, &data))

	// 重置密码
	resp = PatchJSON(t, BaseURL+"/users/"+itoa(data.ID)+"/password", map[string]string{
		"password": "newpass9",
	}, adminToken)
	require.Equal(t, 0, resp.Code, "重置密码失败: %s", resp.Message)

	// 旧密码失效
	loginResp := PostJSON(t, BaseURL+"/auth/login", map[string]string{
		"username": username,
		"password": "pass1234",
	}, "")
	assert.NotEqual(t, 0, loginResp.Code, "旧密码应失效")

	// 新密码生效
	token := Login(t, username, "newpass9")
	assert.NotEmpty(t, token)
}
